package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/internal/core/ports/mocks"
	"payment-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func runMiddleware(mw gin.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, bool) {
	w := httptest.NewRecorder()
	r := gin.New()
	reached := false
	r.Use(mw)
	r.Any("/probe", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(w, req)
	return w, reached
}

func TestAPIKeyAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchant := &domain.Merchant{ID: uuid.New(), APIKey: "key_valid"}
	repo := mocks.NewMockMerchantRepository(ctrl)
	repo.EXPECT().GetByAPIKey(gomock.Any(), "key_valid").Return(merchant, nil)

	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(APIKeyAuth(repo, zerolog.Nop()))
	r.GET("/probe", func(c *gin.Context) {
		id, ok := MerchantID(c)
		require.True(t, ok)
		assert.Equal(t, merchant.ID, id)

		m, ok := Merchant(c)
		require.True(t, ok)
		assert.Equal(t, merchant, m)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderAPIKey, "key_valid")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockMerchantRepository(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w, reached := runMiddleware(APIKeyAuth(repo, zerolog.Nop()), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_001")
	assert.False(t, reached)
}

func TestAPIKeyAuth_UnknownKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockMerchantRepository(ctrl)
	repo.EXPECT().GetByAPIKey(gomock.Any(), "key_unknown").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderAPIKey, "key_unknown")
	w, reached := runMiddleware(APIKeyAuth(repo, zerolog.Nop()), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestAPIKeyAuth_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockMerchantRepository(ctrl)
	repo.EXPECT().GetByAPIKey(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderAPIKey, "key_valid")
	w, reached := runMiddleware(APIKeyAuth(repo, zerolog.Nop()), req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, reached)
}

func TestJWTAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()
	tokenSvc := mocks.NewMockTokenService(ctrl)
	tokenSvc.EXPECT().Validate("good-token").Return(&ports.TokenClaims{
		MerchantID: merchantID,
		Email:      "shop@example.com",
	}, nil)

	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(JWTAuth(tokenSvc, zerolog.Nop()))
	r.GET("/probe", func(c *gin.Context) {
		id, ok := MerchantID(c)
		require.True(t, ok)
		assert.Equal(t, merchantID, id)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_Rejections(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	tokenSvc.EXPECT().Validate("bad-token").Return(nil, apperror.ErrInvalidToken()).AnyTimes()

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"invalid token", "Bearer bad-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w, reached := runMiddleware(JWTAuth(tokenSvc, zerolog.Nop()), req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "AUTH_003")
			assert.False(t, reached)
		})
	}
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(Recovery(zerolog.Nop()))
	r.GET("/probe", func(c *gin.Context) {
		panic("boom")
	})

	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SYS_001")
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w, reached := runMiddleware(RequestLogger(zerolog.Nop()), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
}
