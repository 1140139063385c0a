package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace-bidding-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func protectedRouter(t *testing.T, auth *service.AuthService) (*gin.Engine, *primitive.ObjectID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var captured primitive.ObjectID
	r := gin.New()
	r.GET("/user", UserAuth(auth), func(c *gin.Context) {
		captured = c.MustGet(CtxUserID).(primitive.ObjectID)
		c.Status(http.StatusOK)
	})
	r.GET("/seller", SellerAuth(auth), func(c *gin.Context) {
		captured = c.MustGet(CtxSellerID).(primitive.ObjectID)
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestUserAuthCookie(t *testing.T) {
	auth := service.NewAuthService("clave-de-test")
	userID := primitive.NewObjectID()
	token, err := auth.IssueToken(userID, service.RoleUser)
	require.NoError(t, err)

	r, captured := protectedRouter(t, auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *captured)
}

func TestUserAuthBearerFallback(t *testing.T) {
	auth := service.NewAuthService("clave-de-test")
	userID := primitive.NewObjectID()
	token, err := auth.IssueToken(userID, service.RoleUser)
	require.NoError(t, err)

	r, captured := protectedRouter(t, auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *captured)
}

func TestAuthRejections(t *testing.T) {
	auth := service.NewAuthService("clave-de-test")
	userID := primitive.NewObjectID()
	userToken, err := auth.IssueToken(userID, service.RoleUser)
	require.NoError(t, err)

	foreign := service.NewAuthService("otra-clave")
	foreignToken, err := foreign.IssueToken(userID, service.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		setup   func(req *http.Request)
		message string
	}{
		{
			"sin credenciales", "/user",
			func(req *http.Request) {},
			"missing session cookie",
		},
		{
			"token de otra clave", "/user",
			func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: UserCookie, Value: foreignToken})
			},
			"invalid or expired token",
		},
		{
			"cookie de usuario en ruta de tienda", "/seller",
			func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: SellerCookie, Value: userToken})
			},
			"invalid or expired token",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := protectedRouter(t, auth)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			tc.setup(req)
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
		})
	}
}
