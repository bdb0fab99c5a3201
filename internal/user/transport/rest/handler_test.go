package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	producterrors "github.com/viniduminsara/ClearLens-Backend/internal/product/errors"
	usererrors "github.com/viniduminsara/ClearLens-Backend/internal/user/errors"
	"github.com/viniduminsara/ClearLens-Backend/internal/user/service"
	"github.com/viniduminsara/ClearLens-Backend/pkg/web"
)

// mockUserService is a mock implementation of the UserService interface
type mockUserService struct {
	token     *service.TokenDto
	profile   *service.UserDto
	page      *web.Page[service.UserDto]
	addresses []service.AddressDto
	address   *service.AddressDto
	error     error
}

func (m *mockUserService) Signup(_ context.Context, _ service.SignupDto) (*service.TokenDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.token, nil
}

func (m *mockUserService) Signin(_ context.Context, _ service.SigninDto) (*service.TokenDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.token, nil
}

func (m *mockUserService) RetrieveUsers(_ context.Context, _, _ int32) (*web.Page[service.UserDto], error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.page, nil
}

func (m *mockUserService) RetrieveUserByID(_ context.Context, _ uuid.UUID) (*service.UserDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.profile, nil
}

func (m *mockUserService) AddCartItem(_ context.Context, _, _ uuid.UUID) (*service.UserDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.profile, nil
}

func (m *mockUserService) RemoveCartItem(_ context.Context, _, _ uuid.UUID) (*service.UserDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.profile, nil
}

func (m *mockUserService) ClearCart(_ context.Context, _ uuid.UUID) (*service.UserDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.profile, nil
}

func (m *mockUserService) AddWishlistItem(_ context.Context, _, _ uuid.UUID) (*service.UserDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.profile, nil
}

func (m *mockUserService) RemoveWishlistItem(_ context.Context, _, _ uuid.UUID) (*service.UserDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.profile, nil
}

func (m *mockUserService) RetrieveUserAddresses(_ context.Context, _ uuid.UUID) ([]service.AddressDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.addresses, nil
}

func (m *mockUserService) CreateUserAddress(_ context.Context, _ uuid.UUID, _ service.AddressCreateDto) ([]service.AddressDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.addresses, nil
}

func (m *mockUserService) UpdateUserAddress(_ context.Context, _, _ uuid.UUID, _ service.AddressCreateDto) ([]service.AddressDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.addresses, nil
}

func (m *mockUserService) DeleteUserAddress(_ context.Context, _, _ uuid.UUID) ([]service.AddressDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.addresses, nil
}

func (m *mockUserService) RetrieveAddressByID(_ context.Context, _ uuid.UUID) (*service.AddressDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.address, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func asPrincipal(req *http.Request, id uuid.UUID, role string) *http.Request {
	return req.WithContext(web.WithPrincipal(req.Context(), web.Principal{ID: id, Role: role}))
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return env
}

func Test_UserAPI_Signup(t *testing.T) {
	mockUserID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	validBody := `{"username":"dula","email":"dula@example.com","password":"strongpass1"}`

	testCases := []struct {
		name          string
		mockService   mockUserService
		body          string
		expectedCode  int
		expectSuccess bool
	}{
		{
			name: "Success - user created",
			mockService: mockUserService{
				token: &service.TokenDto{Token: "signed-token", User: service.UserDto{ID: mockUserID, Username: "dula"}},
			},
			body:          validBody,
			expectedCode:  http.StatusCreated,
			expectSuccess: true,
		},
		{
			name:          "Error - broken JSON",
			mockService:   mockUserService{},
			body:          `{"username":`,
			expectedCode:  http.StatusBadRequest,
			expectSuccess: false,
		},
		{
			name:          "Error - password too short",
			mockService:   mockUserService{},
			body:          `{"username":"dula","email":"dula@example.com","password":"short"}`,
			expectedCode:  http.StatusBadRequest,
			expectSuccess: false,
		},
		{
			name:          "Error - invalid email",
			mockService:   mockUserService{},
			body:          `{"username":"dula","email":"not-an-email","password":"strongpass1"}`,
			expectedCode:  http.StatusBadRequest,
			expectSuccess: false,
		},
		{
			name:          "Error - duplicate user",
			mockService:   mockUserService{error: usererrors.ErrDuplicateUser},
			body:          validBody,
			expectedCode:  http.StatusConflict,
			expectSuccess: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := NewHandler(&tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			// when
			handler.Signup(rr, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			env := decodeEnvelope(t, rr)
			assert.Equal(t, tc.expectSuccess, env.Success)
			if tc.expectSuccess {
				var token service.TokenDto
				assert.NoError(t, json.Unmarshal(env.Body, &token))
				assert.Equal(t, "signed-token", token.Token)
			}
		})
	}
}

func Test_UserAPI_Signin(t *testing.T) {
	mockUserID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	validBody := `{"username":"dula","password":"strongpass1"}`

	testCases := []struct {
		name          string
		mockService   mockUserService
		expectedCode  int
		expectSuccess bool
	}{
		{
			name: "Success - signed in",
			mockService: mockUserService{
				token: &service.TokenDto{Token: "signed-token", User: service.UserDto{ID: mockUserID}},
			},
			expectedCode:  http.StatusOK,
			expectSuccess: true,
		},
		{
			name:          "Error - wrong password maps to unauthorized",
			mockService:   mockUserService{error: usererrors.ErrInvalidCredentials},
			expectedCode:  http.StatusUnauthorized,
			expectSuccess: false,
		},
		{
			name:          "Error - unknown user maps to the same unauthorized response",
			mockService:   mockUserService{error: usererrors.ErrUserNotFound},
			expectedCode:  http.StatusUnauthorized,
			expectSuccess: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := NewHandler(&tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(validBody))
			rr := httptest.NewRecorder()
			// when
			handler.Signin(rr, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			env := decodeEnvelope(t, rr)
			assert.Equal(t, tc.expectSuccess, env.Success)
			if !tc.expectSuccess {
				assert.Equal(t, "Invalid username or password", env.Message)
			}
		})
	}
}

func Test_UserAPI_AddCartItem(t *testing.T) {
	mockUserID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	mockProductID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174001")

	testCases := []struct {
		name          string
		mockService   mockUserService
		productID     string
		authenticated bool
		expectedCode  int
		expectSuccess bool
	}{
		{
			name: "Success - product added to cart",
			mockService: mockUserService{
				profile: &service.UserDto{ID: mockUserID, Username: "dula"},
			},
			productID:     mockProductID.String(),
			authenticated: true,
			expectedCode:  http.StatusOK,
			expectSuccess: true,
		},
		{
			name:          "Error - no principal",
			mockService:   mockUserService{},
			productID:     mockProductID.String(),
			authenticated: false,
			expectedCode:  http.StatusUnauthorized,
			expectSuccess: false,
		},
		{
			name:          "Error - invalid product id",
			mockService:   mockUserService{},
			productID:     "not-a-uuid",
			authenticated: true,
			expectedCode:  http.StatusBadRequest,
			expectSuccess: false,
		},
		{
			name:          "Error - product missing",
			mockService:   mockUserService{error: producterrors.ErrProductNotFound},
			productID:     mockProductID.String(),
			authenticated: true,
			expectedCode:  http.StatusNotFound,
			expectSuccess: false,
		},
		{
			name:          "Error - already in cart",
			mockService:   mockUserService{error: usererrors.ErrProductAlreadyInCart},
			productID:     mockProductID.String(),
			authenticated: true,
			expectedCode:  http.StatusConflict,
			expectSuccess: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := NewHandler(&tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/users/cart/"+tc.productID, nil)
			req.SetPathValue("productId", tc.productID)
			if tc.authenticated {
				req = asPrincipal(req, mockUserID, "USER")
			}
			rr := httptest.NewRecorder()
			// when
			handler.AddCartItem(rr, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			env := decodeEnvelope(t, rr)
			assert.Equal(t, tc.expectSuccess, env.Success)
		})
	}
}

func Test_UserAPI_CreateAddress(t *testing.T) {
	mockUserID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	validBody := `{"fullName":"D S","mobileNumber":"0771234567","houseNo":"12","street":"Main St","city":"Colombo","postalCode":"10100"}`

	testCases := []struct {
		name          string
		mockService   mockUserService
		body          string
		expectedCode  int
		expectSuccess bool
	}{
		{
			name: "Success - address created",
			mockService: mockUserService{
				addresses: []service.AddressDto{{ID: uuid.New(), City: "Colombo"}},
			},
			body:          validBody,
			expectedCode:  http.StatusCreated,
			expectSuccess: true,
		},
		{
			name:          "Error - missing fields",
			mockService:   mockUserService{},
			body:          `{"city":"Colombo"}`,
			expectedCode:  http.StatusBadRequest,
			expectSuccess: false,
		},
		{
			name:          "Error - address book full",
			mockService:   mockUserService{error: usererrors.ErrAddressLimit},
			body:          validBody,
			expectedCode:  http.StatusBadRequest,
			expectSuccess: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			handler := NewHandler(&tc.mockService, testLogger())
			req := httptest.NewRequest(http.MethodPost, "/api/users/addresses", strings.NewReader(tc.body))
			req = asPrincipal(req, mockUserID, "USER")
			rr := httptest.NewRecorder()
			// when
			handler.CreateAddress(rr, req)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			env := decodeEnvelope(t, rr)
			assert.Equal(t, tc.expectSuccess, env.Success)
		})
	}
}

func Test_UserAPI_UpdateAddress_AccessDenied(t *testing.T) {
	mockUserID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	mockAddressID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174001")
	validBody := `{"fullName":"D S","mobileNumber":"0771234567","houseNo":"12","street":"Main St","city":"Colombo","postalCode":"10100"}`

	handler := NewHandler(&mockUserService{error: usererrors.ErrAddressAccessDenied}, testLogger())
	req := httptest.NewRequest(http.MethodPut, "/api/users/addresses/"+mockAddressID.String(), strings.NewReader(validBody))
	req.SetPathValue("id", mockAddressID.String())
	req = asPrincipal(req, mockUserID, "USER")
	rr := httptest.NewRecorder()

	handler.UpdateAddress(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
}
