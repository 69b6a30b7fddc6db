package auth_test

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/averoza/stockroom/internal/auth"
	"github.com/averoza/stockroom/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockUserStore implements auth.EmployeeUserStore for testing
type MockUserStore struct {
	users  map[int64]*user.User
	nextID int64
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[int64]*user.User)}
}

func (m *MockUserStore) Create(u *user.User) error {
	if u.Email != nil {
		for _, existing := range m.users {
			if existing.Email != nil && strings.EqualFold(*existing.Email, *u.Email) {
				return user.ErrDuplicateEmail
			}
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	return nil
}

func (m *MockUserStore) GetByID(id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *MockUserStore) GetByEmail(email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

var _ = Describe("Employee Service", func() {
	var (
		store   *MockUserStore
		service *auth.EmployeeService
	)

	register := func(email string) *user.User {
		u, err := service.Register(auth.RegisterEmployeeDTO{
			Email:     email,
			Password:  "hunter2hunter2",
			FirstName: "Eve",
			LastName:  "Stone",
		})
		Expect(err).NotTo(HaveOccurred())
		return u
	}

	BeforeEach(func() {
		store = NewMockUserStore()
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		sessions := auth.NewSessionGenerator("0123456789abcdef0123456789abcdef", time.Hour)
		service = auth.NewEmployeeService(store, sessions, lg)
	})

	Describe("Register", func() {
		It("creates an employee with a salted credential", func() {
			u := register("eve@stockroom.local")
			Expect(u.Role).To(Equal(user.RoleEmployee))
			Expect(u.PasswordHash).NotTo(BeNil())
			Expect(*u.PasswordHash).NotTo(ContainSubstring("hunter2"))
			Expect(*u.PasswordHash).To(ContainSubstring(":"))
		})

		It("rejects a duplicate email regardless of case", func() {
			register("eve@stockroom.local")

			_, err := service.Register(auth.RegisterEmployeeDTO{
				Email:     "EVE@stockroom.local",
				Password:  "hunter2hunter2",
				FirstName: "Eve",
				LastName:  "Stone",
			})
			Expect(err).To(MatchError(auth.ErrDuplicateEmail))
		})

		It("rejects short passwords", func() {
			_, err := service.Register(auth.RegisterEmployeeDTO{
				Email:     "eve@stockroom.local",
				Password:  "short",
				FirstName: "Eve",
				LastName:  "Stone",
			})
			Expect(err).To(HaveOccurred())
			Expect(store.users).To(BeEmpty())
		})
	})

	Describe("Login", func() {
		It("returns a session token for valid credentials", func() {
			registered := register("eve@stockroom.local")

			token, u, err := service.Login(auth.LoginDTO{
				Email:    "eve@stockroom.local",
				Password: "hunter2hunter2",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())
			Expect(u.ID).To(Equal(registered.ID))
		})

		It("collapses unknown emails to ErrInvalidCredentials", func() {
			_, _, err := service.Login(auth.LoginDTO{
				Email:    "nobody@stockroom.local",
				Password: "hunter2hunter2",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("collapses wrong passwords to ErrInvalidCredentials", func() {
			register("eve@stockroom.local")

			_, _, err := service.Login(auth.LoginDTO{
				Email:    "eve@stockroom.local",
				Password: "not the password",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("collapses non-employee accounts to ErrInvalidCredentials", func() {
			email := "sam@stockroom.local"
			hash, err := auth.HashEmployeePassword("hunter2hunter2")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Create(&user.User{
				Email:        &email,
				FirstName:    "Sam",
				LastName:     "Field",
				PasswordHash: &hash,
				Role:         user.RoleStock,
			})).To(Succeed())

			_, _, err = service.Login(auth.LoginDTO{
				Email:    email,
				Password: "hunter2hunter2",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})
	})

	Describe("ResolveSession", func() {
		It("resolves the user behind a valid token", func() {
			registered := register("eve@stockroom.local")

			token, _, err := service.Login(auth.LoginDTO{
				Email:    "eve@stockroom.local",
				Password: "hunter2hunter2",
			})
			Expect(err).NotTo(HaveOccurred())

			u, err := service.ResolveSession(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).To(Equal(registered.ID))
		})

		It("rejects garbage tokens", func() {
			_, err := service.ResolveSession("not.a.token")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})
})
