package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/auth"
	"github.com/pulosarok/desa/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockStaffRepository is a mock implementation of identity.StaffRepository
type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Staff, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Staff, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.Staff), args.Error(1)
}

func (m *MockStaffRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStaffRepository) Save(ctx context.Context, staff *identity.Staff) error {
	return m.Called(ctx, staff).Error(0)
}

func (m *MockStaffRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockStaffRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.Staff, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Staff), args.Error(1)
}

func (m *MockStaffRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByDomain(ctx context.Context, domain string) (*identity.Tenant, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

type authFixture struct {
	tenant    *identity.Tenant
	staff     *identity.Staff
	tenants   *MockTenantRepository
	staffRepo *MockStaffRepository
	blacklist *auth.InMemoryTokenBlacklist
	service   *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tenant, err := identity.NewTenant("PULO", "Desa Pulosarok")
	require.NoError(t, err)
	staff, err := identity.NewStaff(tenant.ID, "operator1", "Password123", identity.RoleOperator)
	require.NoError(t, err)
	staff.ClearDomainEvents()

	f := &authFixture{
		tenant:    tenant,
		staff:     staff,
		tenants:   new(MockTenantRepository),
		staffRepo: new(MockStaffRepository),
		blacklist: auth.NewInMemoryTokenBlacklist(),
	}
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "desa-test",
		MaxRefreshCount:        3,
	})
	f.service = NewAuthService(f.tenants, f.staffRepo, jwtService, f.blacklist, nil, DefaultAuthServiceConfig(), zap.NewNop())
	return f
}

func (f *authFixture) login(t *testing.T, ctx context.Context) *LoginResult {
	t.Helper()
	f.tenants.On("FindByID", ctx, f.tenant.ID).Return(f.tenant, nil)
	f.staffRepo.On("FindByUsername", ctx, f.tenant.ID, "operator1").Return(f.staff, nil)
	f.staffRepo.On("Save", ctx, f.staff).Return(nil)
	result, err := f.service.Login(ctx, LoginInput{TenantID: f.tenant.ID, Username: "operator1", Password: "Password123", IP: "10.0.0.1"})
	require.NoError(t, err)
	return result
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	result := f.login(t, ctx)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "operator1", result.Staff.Username)
	assert.Equal(t, "operator", result.Staff.Role)
	assert.Equal(t, "10.0.0.1", f.staff.LastLoginIP)
	assert.NotNil(t, f.staff.LastLoginAt)

	claims, err := f.service.ValidateAccess(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.tenant.ID.String(), claims.TenantID)
	assert.True(t, claims.HasRole("operator"))
	f.staffRepo.AssertExpectations(t)
}

func TestAuthService_Login_UnknownTenant(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	id := uuid.New()
	f.tenants.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.Login(ctx, LoginInput{TenantID: id, Username: "operator1", Password: "Password123"})
	assertCode(t, err, "INVALID_CREDENTIALS")
}

func TestAuthService_Login_InactiveTenant(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	require.NoError(t, f.tenant.Deactivate())
	f.tenants.On("FindByID", ctx, f.tenant.ID).Return(f.tenant, nil)

	_, err := f.service.Login(ctx, LoginInput{TenantID: f.tenant.ID, Username: "operator1", Password: "Password123"})
	assertCode(t, err, "TENANT_INACTIVE")
	f.staffRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.tenants.On("FindByID", ctx, f.tenant.ID).Return(f.tenant, nil)
	f.staffRepo.On("FindByUsername", ctx, f.tenant.ID, "ghost").Return(nil, shared.ErrNotFound)

	_, err := f.service.Login(ctx, LoginInput{TenantID: f.tenant.ID, Username: "ghost", Password: "Password123"})
	assertCode(t, err, "INVALID_CREDENTIALS")
}

func TestAuthService_Login_WrongPasswordLocksAccount(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.tenants.On("FindByID", ctx, f.tenant.ID).Return(f.tenant, nil)
	f.staffRepo.On("FindByUsername", ctx, f.tenant.ID, "operator1").Return(f.staff, nil)
	f.staffRepo.On("Save", ctx, f.staff).Return(nil)

	input := LoginInput{TenantID: f.tenant.ID, Username: "operator1", Password: "wrong-password"}
	for i := 1; i < identity.MaxLoginAttempts; i++ {
		_, err := f.service.Login(ctx, input)
		assertCode(t, err, "INVALID_CREDENTIALS")
		assert.Equal(t, i, f.staff.FailedAttempts)
	}

	_, err := f.service.Login(ctx, input)
	assertCode(t, err, "ACCOUNT_LOCKED")
	assert.True(t, f.staff.IsLocked())

	// the correct password does not help while locked
	input.Password = "Password123"
	_, err = f.service.Login(ctx, input)
	assertCode(t, err, "ACCOUNT_LOCKED")
	f.staffRepo.AssertNumberOfCalls(t, "Save", identity.MaxLoginAttempts)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	require.NoError(t, f.staff.Deactivate())
	f.tenants.On("FindByID", ctx, f.tenant.ID).Return(f.tenant, nil)
	f.staffRepo.On("FindByUsername", ctx, f.tenant.ID, "operator1").Return(f.staff, nil)

	_, err := f.service.Login(ctx, LoginInput{TenantID: f.tenant.ID, Username: "operator1", Password: "Password123"})
	assertCode(t, err, "ACCOUNT_INACTIVE")
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	result := f.login(t, ctx)
	f.staffRepo.On("FindByIDForTenant", ctx, f.tenant.ID, f.staff.ID).Return(f.staff, nil)

	// role changes apply on refresh
	require.NoError(t, f.staff.SetRole(identity.RoleKepalaDesa))

	pair, err := f.service.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	claims, err := f.service.ValidateAccess(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.HasRole("kepala_desa"))
	assert.Equal(t, 1, claims.RefreshCount)

	// a used refresh token cannot be replayed
	_, err = f.service.Refresh(ctx, result.RefreshToken)
	assertCode(t, err, "TOKEN_REVOKED")
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.service.Refresh(context.Background(), "not-a-token")
	assertCode(t, err, "TOKEN_INVALID")
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	result := f.login(t, ctx)

	claims, err := f.service.ValidateAccess(ctx, result.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, LogoutInput{
		AccessJTI:    claims.ID,
		AccessTTL:    claims.GetRemainingTTL(),
		RefreshToken: result.RefreshToken,
	}))

	_, err = f.service.ValidateAccess(ctx, result.AccessToken)
	assertCode(t, err, "TOKEN_REVOKED")
	_, err = f.service.Refresh(ctx, result.RefreshToken)
	assertCode(t, err, "TOKEN_REVOKED")
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.staffRepo.On("FindByIDForTenant", ctx, f.tenant.ID, f.staff.ID).Return(f.staff, nil)
	f.staffRepo.On("Save", ctx, f.staff).Return(nil)

	err := f.service.ChangePassword(ctx, ChangePasswordInput{
		TenantID: f.tenant.ID, StaffID: f.staff.ID, OldPassword: "wrong", NewPassword: "NewPassword456",
	})
	assertCode(t, err, "INVALID_PASSWORD")

	err = f.service.ChangePassword(ctx, ChangePasswordInput{
		TenantID: f.tenant.ID, StaffID: f.staff.ID, OldPassword: "Password123", NewPassword: "NewPassword456",
	})
	require.NoError(t, err)
	assert.True(t, f.staff.VerifyPassword("NewPassword456"))

	revoked, err := f.blacklist.IsUserTokenInvalidated(ctx, f.staff.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.staffRepo.On("FindByIDForTenant", ctx, f.tenant.ID, f.staff.ID).Return(f.staff, nil)

	me, err := f.service.Me(ctx, f.tenant.ID, f.staff.ID)
	require.NoError(t, err)
	assert.Equal(t, f.staff.ID, me.ID)
	assert.Equal(t, "active", me.Status)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}
