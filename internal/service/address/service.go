package address

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"storefront-orders/internal/domain"
	addrrepo "storefront-orders/internal/repository/address"
)

// Accepted local phone formats: mobile 05/06/07 plus eight digits (or the
// +213 international form), landline 02/03/04 plus seven digits.
var (
	mobileRe   = regexp.MustCompile(`^(?:\+213|0)[567][0-9]{8}$`)
	landlineRe = regexp.MustCompile(`^(?:\+213|0)[234][0-9]{7}$`)
)

// Form is a freshly entered delivery address.
type Form struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	IsDefault  bool   `json:"isDefault"`
}

// Input selects either a previously saved address or a new form. Exactly
// one of the two must be set.
type Input struct {
	SavedID string `json:"savedAddressId"`
	Form    *Form  `json:"newAddress"`
}

// ValidationError carries field-keyed messages for a rejected form. It is
// produced before any store call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "invalid address fields: " + strings.Join(keys, ", ")
}

// ValidateForm checks required fields and formats without touching the
// store. Returns nil when the form is acceptable.
func ValidateForm(f Form) *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(f.FullName) == "" {
		fields["full_name"] = "required"
	}
	if strings.TrimSpace(f.Street) == "" {
		fields["street"] = "required"
	}
	if strings.TrimSpace(f.City) == "" {
		fields["city"] = "required"
	}
	province := strings.TrimSpace(f.Province)
	if province == "" {
		fields["province"] = "required"
	} else if !validProvince(province) {
		fields["province"] = "must be a region code between 01 and 58"
	}
	phone := strings.ReplaceAll(strings.TrimSpace(f.Phone), " ", "")
	if phone == "" {
		fields["phone"] = "required"
	} else if !mobileRe.MatchString(phone) && !landlineRe.MatchString(phone) {
		fields["phone"] = "not a recognized phone number"
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func validProvince(code string) bool {
	if len(code) != 2 {
		return false
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 58
}

// Service resolves an address input to a single persisted address record.
type Service struct {
	repo repository
}

type repository interface {
	Create(ctx context.Context, in addrrepo.CreateAddressInput) (*domain.Address, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Address, error)
	LatestByUser(ctx context.Context, userID string) (*domain.Address, error)
}

func New(repo addrrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Resolve guarantees a persisted address exists for the input and returns
// its id. A saved reference is checked for existence and ownership; a new
// form is validated, then written once.
//
// The underlying store has been observed to acknowledge a create with an
// empty body. When the write succeeds but yields no usable id, Resolve
// re-queries the most recent address for the user instead of re-issuing the
// write (a second insert would duplicate the row). Repeated submission of
// the same form does create duplicates; there is no natural dedup key.
func (s *Service) Resolve(ctx context.Context, userID string, in Input) (string, error) {
	if in.SavedID != "" {
		saved, err := s.repo.GetByID(ctx, userID, in.SavedID)
		if err != nil {
			return "", err
		}
		return saved.ID, nil
	}

	if in.Form == nil {
		return "", &ValidationError{Fields: map[string]string{"address": "saved address or new address required"}}
	}
	if verr := ValidateForm(*in.Form); verr != nil {
		return "", verr
	}

	f := *in.Form
	created, err := s.repo.Create(ctx, addrrepo.CreateAddressInput{
		UserID:     userID,
		FullName:   strings.TrimSpace(f.FullName),
		Phone:      strings.ReplaceAll(strings.TrimSpace(f.Phone), " ", ""),
		Street:     strings.TrimSpace(f.Street),
		City:       strings.TrimSpace(f.City),
		Province:   strings.TrimSpace(f.Province),
		PostalCode: strings.TrimSpace(f.PostalCode),
		IsDefault:  f.IsDefault,
	})
	if err != nil {
		return "", fmt.Errorf("create address: %w", err)
	}
	if created != nil && created.ID != "" {
		return created.ID, nil
	}

	// Ambiguous ack: recover the id, do not retry the write.
	latest, err := s.repo.LatestByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("recover address id: %w", err)
	}
	return latest.ID, nil
}
