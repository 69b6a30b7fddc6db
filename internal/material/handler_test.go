package material_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/averoza/stockroom/internal/auth"
	"github.com/averoza/stockroom/internal/material"
	materialPostgres "github.com/averoza/stockroom/internal/material/postgres"
	"github.com/averoza/stockroom/internal/movement"
	"github.com/averoza/stockroom/internal/requisition"
	"github.com/averoza/stockroom/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Material Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    material.Repository
		handler *material.Handler
		actor   *user.User
	)

	asActor := func(req *http.Request) *http.Request {
		return req.WithContext(auth.ContextWithUser(req.Context(), actor))
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
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := material.NewService(repo, nil, lg)
		handler = material.NewHandler(service)

		actor = &user.User{ID: 1, Role: user.RoleStock}
	})

	It("creates a material and starts it at zero stock", func() {
		body := `{"name":"M8 Bolt","code":"BOLT-M8","unit":"pcs","minimum_stock":50}`
		req := asActor(httptest.NewRequest(http.MethodPost, "/materials", strings.NewReader(body)))
		w := httptest.NewRecorder()

		handler.CreateMaterial(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))

		var created material.Material
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))
		Expect(created.CurrentStock).To(BeZero())
	})

	It("rejects a duplicate code with a validation error", func() {
		Expect(repo.Create(&material.Material{
			Name: "M8 Bolt", Code: "BOLT-M8", Unit: "pcs",
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		})).To(Succeed())

		body := `{"name":"Other","code":"BOLT-M8","unit":"pcs"}`
		req := asActor(httptest.NewRequest(http.MethodPost, "/materials", strings.NewReader(body)))
		w := httptest.NewRecorder()

		handler.CreateMaterial(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects unauthenticated writes", func() {
		body := `{"name":"M8 Bolt","code":"BOLT-M8","unit":"pcs"}`
		req := httptest.NewRequest(http.MethodPost, "/materials", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateMaterial(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("lists materials as JSON", func() {
		Expect(repo.Create(&material.Material{
			Name: "M8 Bolt", Code: "BOLT-M8", Unit: "pcs",
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		})).To(Succeed())

		req := httptest.NewRequest(http.MethodGet, "/materials", nil)
		w := httptest.NewRecorder()

		handler.ListMaterials(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var materials []*material.Material
		Expect(json.NewDecoder(w.Body).Decode(&materials)).To(Succeed())
		Expect(materials).To(HaveLen(1))
	})
})
