package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"persona/internal/appauth"
	"persona/internal/proof/models"
	id "persona/pkg/domain"
)

const walletHex = "0x1234567890abcdef1234567890abcdef12345678"

// stubService returns a canned response and records the owner it was asked about.
type stubService struct {
	lastOwner string
	lastReq   models.ProofRequest
	resp      models.ProofResponse
	err       error
}

func (s *stubService) RequestAccessProof(_ context.Context, ownerRef string, req models.ProofRequest) (models.ProofResponse, error) {
	s.lastOwner = ownerRef
	s.lastReq = req
	return s.resp, s.err
}

type HandlerSuite struct {
	suite.Suite
	router  http.Handler
	service *stubService
	tokens  *appauth.TokenService
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.service = &stubService{
		resp: models.ProofResponse{Proof: "proof-bytes", Nullifier: "7field", Valid: true},
	}
	s.tokens = appauth.NewTokenService("test-signing-key", "persona", time.Hour)

	h := New(s.service, s.tokens, logger)
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) token(appID string) string {
	token, err := s.tokens.Generate(id.AppID(appID), id.WalletAddress(walletHex))
	s.Require().NoError(err)
	return token
}

func (s *HandlerSuite) post(body models.ProofRequest, bearer string) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, "/proofs/access", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validRequest(appID string) models.ProofRequest {
	return models.ProofRequest{
		Function: models.FunctionProveAccess,
		AppID:    appID,
		MinScore: 50,
	}
}

func (s *HandlerSuite) TestAccessProof_Success() {
	rec := s.post(validRequest("app1"), s.token("app1"))

	s.Equal(http.StatusOK, rec.Code)
	var resp models.ProofResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Valid)
	s.Equal("proof-bytes", resp.Proof)

	s.Equal(walletHex, s.service.lastOwner)
	s.Equal(models.DefaultProgram, s.service.lastReq.Program)
}

func (s *HandlerSuite) TestAccessProof_MissingToken() {
	rec := s.post(validRequest("app1"), "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestAccessProof_GarbageToken() {
	rec := s.post(validRequest("app1"), "not-a-jwt")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestAccessProof_AppIDMismatch() {
	// A token for app2 must not be able to request app1's nullifier.
	rec := s.post(validRequest("app1"), s.token("app2"))
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestAccessProof_ValidationFailure() {
	req := validRequest("app1")
	req.MinScore = 101

	rec := s.post(req, s.token("app1"))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestAccessProof_ForeignFunctionRejected() {
	req := validRequest("app1")
	req.Function = "transfer_ownership"

	rec := s.post(req, s.token("app1"))
	s.Equal(http.StatusBadRequest, rec.Code)
}
