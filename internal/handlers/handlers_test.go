package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"smsauth/internal/handlers"
	"smsauth/internal/models"
	"smsauth/internal/routes"
	"smsauth/internal/services"
)

type stubRegistration struct {
	requestErr  error
	verifyErr   error
	completeID  int64
	completeErr error
}

func (s *stubRegistration) RequestCode(context.Context, string) error { return s.requestErr }
func (s *stubRegistration) VerifyCode(context.Context, string, string) error {
	return s.verifyErr
}
func (s *stubRegistration) CompleteRegistration(context.Context, string, string, string) (int64, error) {
	return s.completeID, s.completeErr
}

type stubAuth struct {
	user *models.User
	err  error
}

func (s *stubAuth) HashPassword(plain string) (string, error) { return "$2a$10$stub", nil }
func (s *stubAuth) CheckPassword(plain, hash string) bool     { return false }
func (s *stubAuth) Login(context.Context, string, string) (*models.User, error) {
	return s.user, s.err
}

type stubReset struct {
	requestErr error
	resetErr   error
}

func (s *stubReset) RequestReset(context.Context, string) error { return s.requestErr }
func (s *stubReset) ResetPassword(context.Context, string, string, string) error {
	return s.resetErr
}

func newRouter(reg services.RegistrationService, auth services.AuthService, reset services.PasswordResetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return routes.SetupRoutes(r,
		handlers.NewRegisterHandler(reg),
		handlers.NewAuthHandler(auth),
		handlers.NewPasswordHandler(reset),
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func TestRequestCodeOK(t *testing.T) {
	r := newRouter(&stubRegistration{}, &stubAuth{}, &stubReset{})

	w, resp := doJSON(t, r, http.MethodPost, "/register/request_code", gin.H{"phone": "+1555"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if resp["ok"] != true {
		t.Fatalf("response = %v, want ok:true", resp)
	}
}

func TestRequestCodeSMSFailure(t *testing.T) {
	r := newRouter(&stubRegistration{requestErr: services.ErrSMSDeliveryFailed}, &stubAuth{}, &stubReset{})

	w, resp := doJSON(t, r, http.MethodPost, "/register/request_code", gin.H{"phone": "+1555"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp["error"] != "failed to send SMS" {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestRequestCodeMissingPhone(t *testing.T) {
	r := newRouter(&stubRegistration{}, &stubAuth{}, &stubReset{})

	w, _ := doJSON(t, r, http.MethodPost, "/register/request_code", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestVerifyCodeInvalid(t *testing.T) {
	r := newRouter(&stubRegistration{verifyErr: services.ErrCodeInvalid}, &stubAuth{}, &stubReset{})

	w, resp := doJSON(t, r, http.MethodPost, "/register/verify_code", gin.H{"phone": "+1555", "code": "0000"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp["error"] != "invalid code" {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestRegisterOK(t *testing.T) {
	r := newRouter(&stubRegistration{completeID: 7}, &stubAuth{}, &stubReset{})

	w, resp := doJSON(t, r, http.MethodPost, "/register", gin.H{"phone": "+1555", "code": "1234", "password": "pw1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if resp["ok"] != true || resp["user_id"] != float64(7) {
		t.Fatalf("response = %v", resp)
	}
}

func TestRegisterAccountExists(t *testing.T) {
	r := newRouter(&stubRegistration{completeErr: services.ErrAccountExists}, &stubAuth{}, &stubReset{})

	w, resp := doJSON(t, r, http.MethodPost, "/register", gin.H{"phone": "+1555", "code": "1234", "password": "pw1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp["error"] != "user already exists" {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	r := newRouter(&stubRegistration{}, &stubAuth{err: services.ErrInvalidCredentials}, &stubReset{})

	w, resp := doJSON(t, r, http.MethodPost, "/login", gin.H{"phone": "+1555", "password": "wrong"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp["error"] != "invalid phone or password" {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestLoginOK(t *testing.T) {
	r := newRouter(&stubRegistration{}, &stubAuth{user: &models.User{ID: 1, Phone: "+1555", PasswordHash: "x"}}, &stubReset{})

	w, resp := doJSON(t, r, http.MethodPost, "/login", gin.H{"phone": "+1555", "password": "pw1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("response has no user object: %v", resp)
	}
	if user["id"] != float64(1) || user["phone"] != "+1555" {
		t.Fatalf("user = %v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked in login response")
	}
}

func TestPasswordResetEndpoints(t *testing.T) {
	r := newRouter(&stubRegistration{}, &stubAuth{}, &stubReset{})

	w, resp := doJSON(t, r, http.MethodPost, "/password/request_code", gin.H{"phone": "+1555"})
	if w.Code != http.StatusOK || resp["ok"] != true {
		t.Fatalf("request_code: status=%d resp=%v", w.Code, resp)
	}

	w, resp = doJSON(t, r, http.MethodPost, "/password/reset", gin.H{"phone": "+1555", "code": "1234", "password": "new-pass"})
	if w.Code != http.StatusOK || resp["ok"] != true {
		t.Fatalf("reset: status=%d resp=%v", w.Code, resp)
	}

	rFail := newRouter(&stubRegistration{}, &stubAuth{}, &stubReset{resetErr: services.ErrCodeInvalid})
	w, resp = doJSON(t, rFail, http.MethodPost, "/password/reset", gin.H{"phone": "+1555", "code": "0000", "password": "new-pass"})
	if w.Code != http.StatusBadRequest || resp["error"] != "invalid code" {
		t.Fatalf("reset with bad code: status=%d resp=%v", w.Code, resp)
	}
}
