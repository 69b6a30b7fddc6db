package memory_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/averoza/stockroom/internal/audit"
	"github.com/averoza/stockroom/internal/material"
	"github.com/averoza/stockroom/internal/movement"
	"github.com/averoza/stockroom/internal/requisition"
	"github.com/averoza/stockroom/internal/storage/memory"
	"github.com/averoza/stockroom/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMemoryStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Memory Store Suite")
}

var _ = Describe("Memory Store", func() {
	var (
		store        *memory.Store
		materials    material.Repository
		movements    movement.Repository
		requisitions requisition.Repository
		users        user.Repository
		audits       audit.Repository

		bolt     *material.Material
		employee *user.User
	)

	seedUser := func(email string, role user.Role) *user.User {
		u := &user.User{Email: &email, FirstName: "Eve", LastName: "Stone", Role: role}
		Expect(users.Create(u)).To(Succeed())
		return u
	}

	record := func(mvType movement.Type, qty int64) {
		Expect(movements.Create(&movement.StockMovement{
			MaterialID: bolt.ID,
			Type:       mvType,
			Quantity:   qty,
			UserID:     employee.ID,
		})).To(Succeed())
	}

	currentStock := func() int64 {
		m, err := materials.GetByID(bolt.ID)
		Expect(err).NotTo(HaveOccurred())
		return m.CurrentStock
	}

	BeforeEach(func() {
		store = memory.NewStore()
		materials = memory.NewMaterialRepository(store)
		movements = memory.NewMovementRepository(store)
		requisitions = memory.NewRequisitionRepository(store)
		users = memory.NewUserRepository(store)
		audits = memory.NewAuditRepository(store)

		employee = seedUser("eve@stockroom.local", user.RoleEmployee)

		bolt = &material.Material{Name: "M8 Bolt", Code: "BOLT-M8", Unit: "pcs", MinimumStock: 10}
		Expect(materials.Create(bolt)).To(Succeed())
	})

	Describe("Movements", func() {
		It("applies deltas and clamps at zero", func() {
			record(movement.TypeInbound, 15)
			Expect(currentStock()).To(Equal(int64(15)))

			record(movement.TypeOutbound, 20)
			Expect(currentStock()).To(BeZero())

			record(movement.TypeAdjustment, 7)
			Expect(currentStock()).To(Equal(int64(7)))
		})

		It("rejects movements for unknown materials", func() {
			err := movements.Create(&movement.StockMovement{
				MaterialID: 999,
				Type:       movement.TypeInbound,
				Quantity:   5,
				UserID:     employee.ID,
			})
			Expect(err).To(MatchError(movement.ErrMovementMaterialNotFound))
		})

		It("lists newest first", func() {
			record(movement.TypeInbound, 1)
			record(movement.TypeInbound, 2)

			ledger, err := movements.List(&bolt.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ledger).To(HaveLen(2))
			Expect(ledger[0].Quantity).To(Equal(int64(2)))
		})
	})

	Describe("Requisitions", func() {
		pending := func(qty int64) *requisition.Requisition {
			req := &requisition.Requisition{
				EmployeeID:  employee.ID,
				MaterialID:  bolt.ID,
				Quantity:    qty,
				Status:      requisition.StatusPending,
				CreatedByID: employee.ID,
			}
			Expect(requisitions.Create(req)).To(Succeed())
			return req
		}

		It("signs once and records the linked outbound movement", func() {
			record(movement.TypeInbound, 20)
			req := pending(5)

			device := "tablet-3"
			signed, err := requisitions.Sign(req.ID, requisition.SignMeta{SignedAt: time.Now(), Device: &device})
			Expect(err).NotTo(HaveOccurred())
			Expect(signed.Status).To(Equal(requisition.StatusSigned))

			Expect(currentStock()).To(Equal(int64(15)))

			ledger, err := movements.List(&bolt.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ledger[0].Type).To(Equal(movement.TypeOutbound))
			Expect(*ledger[0].RequisitionID).To(Equal(req.ID))

			_, err = requisitions.Sign(req.ID, requisition.SignMeta{SignedAt: time.Now()})
			Expect(err).To(MatchError(requisition.ErrAlreadySigned))
			Expect(currentStock()).To(Equal(int64(15)))
		})

		It("clamps an overdrawing signature at zero", func() {
			record(movement.TypeInbound, 3)
			req := pending(50)

			_, err := requisitions.Sign(req.ID, requisition.SignMeta{SignedAt: time.Now()})
			Expect(err).NotTo(HaveOccurred())
			Expect(currentStock()).To(BeZero())
		})

		It("refuses to sign a cancelled requisition", func() {
			req := pending(5)
			_, err := requisitions.Cancel(req.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = requisitions.Sign(req.ID, requisition.SignMeta{SignedAt: time.Now()})
			Expect(err).To(MatchError(requisition.ErrAlreadyCancelled))
		})

		It("joins summaries in listings", func() {
			pending(5)

			details, err := requisitions.ListAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(details).To(HaveLen(1))
			Expect(details[0].Material.Code).To(Equal("BOLT-M8"))
			Expect(details[0].CreatedBy.FirstName).To(Equal("Eve"))
		})

		It("does not alias internal state through returned rows", func() {
			req := pending(5)

			fetched, err := requisitions.GetByID(req.ID)
			Expect(err).NotTo(HaveOccurred())
			fetched.Status = requisition.StatusSigned

			again, err := requisitions.GetByID(req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Status).To(Equal(requisition.StatusPending))
		})
	})

	Describe("Users", func() {
		It("rejects duplicate emails regardless of case", func() {
			email := "EVE@stockroom.local"
			err := users.Create(&user.User{Email: &email, Role: user.RoleEmployee})
			Expect(err).To(MatchError(user.ErrDuplicateEmail))
		})

		It("resolves emails case-insensitively", func() {
			u, err := users.GetByEmail("Eve@Stockroom.Local")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).To(Equal(employee.ID))
		})
	})

	Describe("Materials", func() {
		It("reports references from movements and requisitions", func() {
			referenced, err := materials.IsReferenced(bolt.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(referenced).To(BeFalse())

			record(movement.TypeInbound, 1)

			referenced, err = materials.IsReferenced(bolt.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(referenced).To(BeTrue())
		})

		It("keeps stock out of catalog updates", func() {
			record(movement.TypeInbound, 12)

			bolt.Name = "M8 Hex Bolt"
			bolt.CurrentStock = 999
			Expect(materials.Update(bolt)).To(Succeed())

			Expect(currentStock()).To(Equal(int64(12)))
		})
	})

	Describe("Audit trail", func() {
		It("caps listings and returns newest first", func() {
			for i := 0; i < audit.MaxListLimit+5; i++ {
				Expect(audits.Create(&audit.AuditLog{
					UserID:     employee.ID,
					Action:     fmt.Sprintf("action.%d", i),
					EntityType: "material",
					EntityID:   bolt.ID,
				})).To(Succeed())
			}

			entries, err := audits.List(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(audit.MaxListLimit))
			Expect(entries[0].Action).To(Equal(fmt.Sprintf("action.%d", audit.MaxListLimit+4)))
		})
	})
})
