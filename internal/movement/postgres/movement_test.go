package postgres_test

import (
	"testing"
	"time"

	"github.com/averoza/stockroom/internal/material"
	materialPostgres "github.com/averoza/stockroom/internal/material/postgres"
	"github.com/averoza/stockroom/internal/movement"
	movementPostgres "github.com/averoza/stockroom/internal/movement/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMovementPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Movement Postgres Suite")
}

var _ = Describe("Movement Repository", func() {
	var (
		db        *gorm.DB
		repo      movement.Repository
		materials material.Repository
		bolt      *material.Material
	)

	record := func(mvType movement.Type, qty int64) *movement.StockMovement {
		mv := &movement.StockMovement{
			MaterialID: bolt.ID,
			Type:       mvType,
			Quantity:   qty,
			UserID:     1,
		}
		Expect(repo.Create(mv)).To(Succeed())
		return mv
	}

	currentStock := func() int64 {
		m, err := materials.GetByID(bolt.ID)
		Expect(err).NotTo(HaveOccurred())
		return m.CurrentStock
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&material.Material{}, &movement.StockMovement{})
		Expect(err).NotTo(HaveOccurred())

		repo = movementPostgres.NewMovementRepository(db)
		materials = materialPostgres.NewMaterialRepository(db)

		now := time.Now()
		bolt = &material.Material{
			Name:         "M8 Bolt",
			Code:         "BOLT-M8",
			Unit:         "pcs",
			MinimumStock: 50,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		Expect(materials.Create(bolt)).To(Succeed())
	})

	Describe("Create", func() {
		It("applies inbound deltas to current stock", func() {
			record(movement.TypeInbound, 15)
			Expect(currentStock()).To(Equal(int64(15)))
		})

		It("clamps outbound overdraw at zero", func() {
			record(movement.TypeInbound, 15)
			record(movement.TypeOutbound, 20)
			Expect(currentStock()).To(BeZero())
		})

		It("treats adjustments as additions", func() {
			record(movement.TypeInbound, 10)
			record(movement.TypeAdjustment, 3)
			Expect(currentStock()).To(Equal(int64(13)))
		})

		It("keeps the ledger append-only across a sequence", func() {
			record(movement.TypeInbound, 15)
			record(movement.TypeOutbound, 20)
			record(movement.TypeInbound, 7)

			movements, err := repo.List(&bolt.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(movements).To(HaveLen(3))
			Expect(currentStock()).To(Equal(int64(7)))
		})

		It("rejects movements for unknown materials", func() {
			mv := &movement.StockMovement{
				MaterialID: 999,
				Type:       movement.TypeInbound,
				Quantity:   5,
				UserID:     1,
			}
			Expect(repo.Create(mv)).To(MatchError(movement.ErrMovementMaterialNotFound))
		})

		It("does not insert the movement when the stock update fails", func() {
			mv := &movement.StockMovement{
				MaterialID: 999,
				Type:       movement.TypeInbound,
				Quantity:   5,
				UserID:     1,
			}
			_ = repo.Create(mv)

			movements, err := repo.List(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(movements).To(BeEmpty())
		})
	})

	Describe("List", func() {
		It("returns newest first", func() {
			first := record(movement.TypeInbound, 1)
			second := record(movement.TypeInbound, 2)
			third := record(movement.TypeInbound, 3)

			movements, err := repo.List(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(movements).To(HaveLen(3))
			Expect(movements[0].ID).To(Equal(third.ID))
			Expect(movements[1].ID).To(Equal(second.ID))
			Expect(movements[2].ID).To(Equal(first.ID))
		})

		It("filters by material", func() {
			other := &material.Material{
				Name:      "Nut",
				Code:      "NUT-M8",
				Unit:      "pcs",
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			Expect(materials.Create(other)).To(Succeed())

			record(movement.TypeInbound, 5)
			mv := &movement.StockMovement{
				MaterialID: other.ID,
				Type:       movement.TypeInbound,
				Quantity:   9,
				UserID:     1,
			}
			Expect(repo.Create(mv)).To(Succeed())

			movements, err := repo.List(&other.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(movements).To(HaveLen(1))
			Expect(movements[0].Quantity).To(Equal(int64(9)))
		})
	})

	Describe("CountCreatedBetween", func() {
		It("counts everything when both bounds are nil", func() {
			record(movement.TypeInbound, 1)
			record(movement.TypeInbound, 2)

			count, err := repo.CountCreatedBetween(nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})

		It("honors the window bounds", func() {
			record(movement.TypeInbound, 1)

			future := time.Now().Add(time.Hour)
			count, err := repo.CountCreatedBetween(&future, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())

			past := time.Now().Add(-time.Hour)
			count, err = repo.CountCreatedBetween(&past, &future)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})
})
