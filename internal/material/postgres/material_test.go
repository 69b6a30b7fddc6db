package postgres_test

import (
	"testing"
	"time"

	"github.com/averoza/stockroom/internal/material"
	materialPostgres "github.com/averoza/stockroom/internal/material/postgres"
	"github.com/averoza/stockroom/internal/movement"
	"github.com/averoza/stockroom/internal/requisition"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMaterialPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Material Postgres Suite")
}

var _ = Describe("Material Repository", func() {
	var (
		db   *gorm.DB
		repo material.Repository
	)

	newMaterial := func(name, code string, minimum int64) *material.Material {
		now := time.Now()
		return &material.Material{
			Name:         name,
			Code:         code,
			Unit:         "pcs",
			MinimumStock: minimum,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&material.Material{}, &movement.StockMovement{}, &requisition.Requisition{})
		Expect(err).NotTo(HaveOccurred())

		repo = materialPostgres.NewMaterialRepository(db)
	})

	Describe("Create and GetByCode", func() {
		It("persists and resolves by code", func() {
			m := newMaterial("M8 Bolt", "BOLT-M8", 50)
			Expect(repo.Create(m)).To(Succeed())
			Expect(m.ID).To(BeNumerically(">", 0))

			found, err := repo.GetByCode("BOLT-M8")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("M8 Bolt"))
			Expect(found.CurrentStock).To(BeZero())
		})

		It("returns ErrMaterialNotFound for unknown codes", func() {
			_, err := repo.GetByCode("NOPE")
			Expect(err).To(MatchError(material.ErrMaterialNotFound))
		})
	})

	Describe("List", func() {
		It("orders by name", func() {
			Expect(repo.Create(newMaterial("Tape", "TAPE", 0))).To(Succeed())
			Expect(repo.Create(newMaterial("Bolt", "BOLT", 0))).To(Succeed())
			Expect(repo.Create(newMaterial("Glove", "GLOVE", 0))).To(Succeed())

			materials, err := repo.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(materials).To(HaveLen(3))
			Expect(materials[0].Name).To(Equal("Bolt"))
			Expect(materials[1].Name).To(Equal("Glove"))
			Expect(materials[2].Name).To(Equal("Tape"))
		})
	})

	Describe("Update", func() {
		It("updates catalog fields", func() {
			m := newMaterial("Bolt", "BOLT", 10)
			Expect(repo.Create(m)).To(Succeed())

			m.Name = "M8 Bolt"
			m.MinimumStock = 25
			m.UpdatedAt = time.Now()
			Expect(repo.Update(m)).To(Succeed())

			found, err := repo.GetByID(m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("M8 Bolt"))
			Expect(found.MinimumStock).To(Equal(int64(25)))
		})

		It("returns ErrMaterialNotFound for missing rows", func() {
			m := newMaterial("Ghost", "GHOST", 0)
			m.ID = 999
			Expect(repo.Update(m)).To(MatchError(material.ErrMaterialNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes the material", func() {
			m := newMaterial("Bolt", "BOLT", 0)
			Expect(repo.Create(m)).To(Succeed())
			Expect(repo.Delete(m.ID)).To(Succeed())

			_, err := repo.GetByID(m.ID)
			Expect(err).To(MatchError(material.ErrMaterialNotFound))
		})

		It("returns ErrMaterialNotFound for missing rows", func() {
			Expect(repo.Delete(999)).To(MatchError(material.ErrMaterialNotFound))
		})
	})

	Describe("ListLowStock", func() {
		It("includes zero stock and materials at the minimum, excludes the rest", func() {
			zero := newMaterial("Empty", "EMPTY", 5)
			Expect(repo.Create(zero)).To(Succeed())

			atMinimum := newMaterial("Edge", "EDGE", 10)
			Expect(repo.Create(atMinimum)).To(Succeed())
			Expect(db.Model(atMinimum).Update("current_stock", 10).Error).NotTo(HaveOccurred())

			healthy := newMaterial("Plenty", "PLENTY", 10)
			Expect(repo.Create(healthy)).To(Succeed())
			Expect(db.Model(healthy).Update("current_stock", 50).Error).NotTo(HaveOccurred())

			low, err := repo.ListLowStock()
			Expect(err).NotTo(HaveOccurred())
			Expect(low).To(HaveLen(2))
			Expect(low[0].Code).To(Equal("EDGE"))
			Expect(low[1].Code).To(Equal("EMPTY"))
		})
	})

	Describe("IsReferenced", func() {
		It("reports false for an untouched material", func() {
			m := newMaterial("Bolt", "BOLT", 0)
			Expect(repo.Create(m)).To(Succeed())

			referenced, err := repo.IsReferenced(m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(referenced).To(BeFalse())
		})

		It("reports true once a movement exists", func() {
			m := newMaterial("Bolt", "BOLT", 0)
			Expect(repo.Create(m)).To(Succeed())

			mv := &movement.StockMovement{
				MaterialID: m.ID,
				Type:       movement.TypeInbound,
				Quantity:   5,
				UserID:     1,
				CreatedAt:  time.Now(),
			}
			Expect(db.Create(mv).Error).NotTo(HaveOccurred())

			referenced, err := repo.IsReferenced(m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(referenced).To(BeTrue())
		})

		It("reports true once a requisition exists", func() {
			m := newMaterial("Bolt", "BOLT", 0)
			Expect(repo.Create(m)).To(Succeed())

			req := &requisition.Requisition{
				EmployeeID:  1,
				MaterialID:  m.ID,
				Quantity:    2,
				Status:      requisition.StatusPending,
				CreatedByID: 1,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			Expect(db.Create(req).Error).NotTo(HaveOccurred())

			referenced, err := repo.IsReferenced(m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(referenced).To(BeTrue())
		})
	})
})
