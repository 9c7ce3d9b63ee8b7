package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/go-playground/validator/v10"
)

var supplierCodePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// validate checks request DTOs that reach services without going through gin
// binding (CLI, tests). It reads the same "binding" tags.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	_ = v.RegisterValidation("supplier_code", ValidateSupplierCode)
	return v
}

// ValidateSupplierCode is the "supplier_code" validation: uppercase letters,
// digits, underscore and dash. It is also registered on gin's validator.
func ValidateSupplierCode(fl validator.FieldLevel) bool {
	return supplierCodePattern.MatchString(fl.Field().String())
}

// supplierService implements the SupplierSvc interface
type supplierService struct {
	BaseService
	store portsrepo.Store
	deps  dependencies
}

// NewSupplierService creates the supplier registry.
func NewSupplierService(store portsrepo.Store, options ...ServiceOption) portssvc.SupplierSvc {
	return &supplierService{store: store, deps: newDependencies(options...)}
}

var _ portssvc.SupplierSvc = (*supplierService)(nil)

func (s *supplierService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error) {
	req.Code = strings.TrimSpace(req.Code)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	supplier := domain.Supplier{
		Code:        req.Code,
		LegalName:   strings.TrimSpace(req.LegalName),
		Address:     req.Address,
		City:        req.City,
		Phone:       req.Phone,
		Email:       req.Email,
		IsActive:    true,
		AuditFields: newAudit(userID, s.deps.now()),
	}
	if err := s.store.Repositories().SupplierRepo.SaveSupplier(ctx, supplier); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save supplier", slog.String("supplier_code", supplier.Code))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Supplier created", slog.String("supplier_code", supplier.Code))
	return &supplier, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, code string) (*domain.Supplier, error) {
	return s.store.Repositories().SupplierRepo.FindSupplierByCode(ctx, code)
}

func (s *supplierService) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	suppliers, err := s.store.Repositories().SupplierRepo.ListSuppliers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list suppliers")
		return nil, err
	}
	if suppliers == nil {
		return []domain.Supplier{}, nil
	}
	return suppliers, nil
}

func (s *supplierService) DeactivateSupplier(ctx context.Context, code string, userID string) error {
	if err := s.store.Repositories().SupplierRepo.DeactivateSupplier(ctx, code, s.deps.now(), userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate supplier", slog.String("supplier_code", code))
		}
		return err
	}
	s.LogInfo(ctx, "Supplier deactivated", slog.String("supplier_code", code))
	return nil
}
