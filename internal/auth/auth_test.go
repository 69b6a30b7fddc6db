package auth_test

import (
	"io"
	"log/slog"
	"time"

	"github.com/averoza/stockroom/internal/auth"
	"github.com/averoza/stockroom/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("JWT Token Generator", func() {
	var (
		tokens  *auth.JWTTokenGenerator
		subject *user.User
	)

	BeforeEach(func() {
		tokens = auth.NewJWTTokenGenerator(
			"access-secret-access-secret-1234",
			"refresh-secret-refresh-secret-12",
			15*time.Minute,
			24*time.Hour,
		)
		email := "sam@stockroom.local"
		subject = &user.User{ID: 42, Email: &email, Role: user.RoleStock}
	})

	It("round-trips claims through an access token", func() {
		token, err := tokens.GenerateAccessToken(subject)
		Expect(err).NotTo(HaveOccurred())

		claims, err := tokens.ValidateAccessToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(42)))
		Expect(claims.Email).To(Equal("sam@stockroom.local"))
		Expect(claims.Role).To(Equal(user.RoleStock))
	})

	It("does not accept a refresh token as an access token", func() {
		refresh, err := tokens.GenerateRefreshToken(subject)
		Expect(err).NotTo(HaveOccurred())

		_, err = tokens.ValidateAccessToken(refresh)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})

	It("rejects expired tokens", func() {
		expired := auth.NewJWTTokenGenerator(
			"access-secret-access-secret-1234",
			"refresh-secret-refresh-secret-12",
			-time.Minute,
			24*time.Hour,
		)
		token, err := expired.GenerateAccessToken(subject)
		Expect(err).NotTo(HaveOccurred())

		_, err = tokens.ValidateAccessToken(token)
		Expect(err).To(MatchError(auth.ErrTokenExpired))
	})

	It("rejects tokens signed with another secret", func() {
		other := auth.NewJWTTokenGenerator(
			"some-other-secret-entirely-12345",
			"refresh-secret-refresh-secret-12",
			15*time.Minute,
			24*time.Hour,
		)
		token, err := other.GenerateAccessToken(subject)
		Expect(err).NotTo(HaveOccurred())

		_, err = tokens.ValidateAccessToken(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})
})

var _ = Describe("Staff Service", func() {
	var (
		store   *MockUserStore
		service *auth.Service
		email   string
	)

	BeforeEach(func() {
		store = NewMockUserStore()
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		tokens := auth.NewJWTTokenGenerator(
			"access-secret-access-secret-1234",
			"refresh-secret-refresh-secret-12",
			15*time.Minute,
			24*time.Hour,
		)
		service = auth.NewService(store, tokens, bcrypt.MinCost, lg)

		email = "sam@stockroom.local"
		hash, err := service.HashPassword("hunter2hunter2")
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Create(&user.User{
			Email:        &email,
			FirstName:    "Sam",
			LastName:     "Field",
			PasswordHash: &hash,
			Role:         user.RoleStock,
		})).To(Succeed())
	})

	Describe("Authenticate", func() {
		It("issues a token pair for valid credentials", func() {
			pair, err := service.Authenticate(auth.LoginDTO{Email: email, Password: "hunter2hunter2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(pair.AccessToken).NotTo(BeEmpty())
			Expect(pair.RefreshToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(pair.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Role).To(Equal(user.RoleStock))
		})

		It("collapses unknown users and wrong passwords to ErrInvalidCredentials", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "nobody@stockroom.local", Password: "hunter2hunter2"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))

			_, err = service.Authenticate(auth.LoginDTO{Email: email, Password: "wrong"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})
	})

	Describe("RefreshTokens", func() {
		It("issues a fresh pair from a valid refresh token", func() {
			pair, err := service.Authenticate(auth.LoginDTO{Email: email, Password: "hunter2hunter2"})
			Expect(err).NotTo(HaveOccurred())

			fresh, err := service.RefreshTokens(pair.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(fresh.AccessToken).NotTo(BeEmpty())
		})

		It("refuses an access token in place of a refresh token", func() {
			pair, err := service.Authenticate(auth.LoginDTO{Email: email, Password: "hunter2hunter2"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RefreshTokens(pair.AccessToken)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})
})

var _ = Describe("Role Permissions", func() {
	It("limits employees to reading and signing their requisitions", func() {
		Expect(auth.HasPermission(user.RoleEmployee, auth.PermRequisitionsRead)).To(BeTrue())
		Expect(auth.HasPermission(user.RoleEmployee, auth.PermRequisitionsSign)).To(BeTrue())
		Expect(auth.HasPermission(user.RoleEmployee, auth.PermMaterialsWrite)).To(BeFalse())
		Expect(auth.HasPermission(user.RoleEmployee, auth.PermAuditRead)).To(BeFalse())
	})

	It("reserves the audit trail and user management for admins", func() {
		Expect(auth.HasPermission(user.RoleAdmin, auth.PermAuditRead)).To(BeTrue())
		Expect(auth.HasPermission(user.RoleAdmin, auth.PermUsersManage)).To(BeTrue())
		Expect(auth.HasPermission(user.RoleStock, auth.PermAuditRead)).To(BeFalse())
		Expect(auth.HasPermission(user.RoleStock, auth.PermUsersManage)).To(BeFalse())
	})

	It("grants stock staff the catalog and ledger", func() {
		Expect(auth.HasPermission(user.RoleStock, auth.PermMaterialsWrite)).To(BeTrue())
		Expect(auth.HasPermission(user.RoleStock, auth.PermMovementsWrite)).To(BeTrue())
		Expect(auth.HasPermission(user.RoleStock, auth.PermRequisitionsSign)).To(BeTrue())
	})
})
