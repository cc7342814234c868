package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/app/service"
	"github.com/usav/inventory-backend/internal/db"
	"gorm.io/gorm"
)

func setupIdentityControllerTest(t *testing.T) (*IdentityController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	identityRepo := repository.NewIdentityRepository(testDB)
	familyRepo := repository.NewFamilyRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	bundleRepo := repository.NewBundleRepository(testDB)
	identityService := service.NewIdentityService(identityRepo, familyRepo, variantRepo, bundleRepo)
	identityController := NewIdentityController(identityService)

	family := &model.ProductFamily{ProductID: 845, BaseName: "Bose Acoustimass 10"}
	require.NoError(t, testDB.Create(family).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return identityController, router, testDB
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdentityController_CreateIdentity_Success(t *testing.T) {
	controller, router, _ := setupIdentityControllerTest(t)
	router.POST("/identities", controller.CreateIdentity)

	w := postJSON(t, router, "/identities", gin.H{
		"product_id":    845,
		"identity_type": "Base",
		"name":          "Bose Acoustimass 10",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "00845", response["upis_h"])
	assert.Equal(t, "BBF802E7", response["hex_signature"])
}

func TestIdentityController_CreateIdentity_UnknownFamily(t *testing.T) {
	controller, router, _ := setupIdentityControllerTest(t)
	router.POST("/identities", controller.CreateIdentity)

	w := postJSON(t, router, "/identities", gin.H{
		"product_id":    846,
		"identity_type": "Base",
		"name":          "No such family",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIdentityController_CreateIdentity_Duplicate(t *testing.T) {
	controller, router, _ := setupIdentityControllerTest(t)
	router.POST("/identities", controller.CreateIdentity)

	payload := gin.H{
		"product_id":    845,
		"identity_type": "B",
		"name":          "Full bundle",
	}

	w := postJSON(t, router, "/identities", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/identities", payload)
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "IDENTITY_ALREADY_EXISTS", response["error"])
}

func TestIdentityController_CreateIdentity_RejectsBadType(t *testing.T) {
	controller, router, _ := setupIdentityControllerTest(t)
	router.POST("/identities", controller.CreateIdentity)

	w := postJSON(t, router, "/identities", gin.H{
		"product_id":    845,
		"identity_type": "X",
		"name":          "Mystery",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIdentityController_GetIdentityByUPISH(t *testing.T) {
	controller, router, _ := setupIdentityControllerTest(t)
	router.POST("/identities", controller.CreateIdentity)
	router.GET("/identities/upis/:upis_h", controller.GetIdentityByUPISH)

	w := postJSON(t, router, "/identities", gin.H{
		"product_id":    845,
		"identity_type": "P",
		"name":          "Subwoofer",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/identities/upis/00845-P-1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Subwoofer", response["name"])
	assert.Equal(t, float64(1), response["lci"])

	req = httptest.NewRequest(http.MethodGet, "/identities/upis/99999", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIdentityController_ListIdentities_Pagination(t *testing.T) {
	controller, router, _ := setupIdentityControllerTest(t)
	router.POST("/identities", controller.CreateIdentity)
	router.GET("/identities", controller.ListIdentities)

	for _, name := range []string{"Subwoofer", "Left cube", "Right cube"} {
		w := postJSON(t, router, "/identities", gin.H{
			"product_id":    845,
			"identity_type": "P",
			"name":          name,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/identities?skip=1&limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(3), response["total"])
	assert.Equal(t, float64(1), response["skip"])
	assert.Equal(t, float64(2), response["limit"])
	assert.Len(t, response["items"], 2)
}
