package accountfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/bnema/checkin-bot/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

type Repository struct {
	accountsPath string
}

var _ ports.AccountSource = (*Repository)(nil)

func NewRepository(accountsPath string) (*Repository, error) {
	if strings.TrimSpace(accountsPath) == "" {
		return nil, errors.New("accounts path is empty")
	}

	absPath, err := filepath.Abs(accountsPath)
	if err != nil {
		return nil, fmt.Errorf("resolve accounts path: %w", err)
	}

	return &Repository{accountsPath: filepath.Clean(absPath)}, nil
}

func (r *Repository) Path() string {
	return r.accountsPath
}

// List returns the enabled accounts in file order. Disabled entries are not validated.
func (r *Repository) List(ctx context.Context) ([]domain.Account, error) {
	return r.load(ctx, false)
}

// ListAll returns every account in file order. Disabled entries are shown as written,
// so an incomplete leftover never hides the enabled ones.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Account, error) {
	return r.load(ctx, true)
}

func (r *Repository) load(ctx context.Context, includeDisabled bool) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(file.Accounts))
	seen := make(map[string]struct{}, len(file.Accounts))
	for i, entry := range file.Accounts {
		if !entry.enabled() {
			if includeDisabled {
				accounts = append(accounts, disabledFromSchema(i, entry))
			}
			continue
		}

		account, err := fromSchema(entry)
		if err != nil {
			return nil, fmt.Errorf("account #%d: %w", i+1, err)
		}
		if _, ok := seen[account.Name]; ok {
			return nil, fmt.Errorf("account #%d: %w: duplicate name %q", i+1, domain.ErrInvalidAccount, account.Name)
		}
		seen[account.Name] = struct{}{}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.accountsPath)
	if err != nil {
		return fileSchema{}, fmt.Errorf("read accounts file: %w", err)
	}

	var file fileSchema
	if isTOML(r.accountsPath) {
		err = toml.Unmarshal(data, &file)
	} else {
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return fileSchema{}, fmt.Errorf("decode accounts file: %w", err)
	}

	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func fromSchema(entry accountSchema) (domain.Account, error) {
	if entry.SessionToken == nil {
		return domain.Account{}, fmt.Errorf("%w: session_token is required", domain.ErrInvalidAccount)
	}

	account := domain.Account{
		Name:         strings.TrimSpace(entry.Name),
		SessionToken: strings.TrimSpace(*entry.SessionToken),
		Cookies:      strings.TrimSpace(entry.Cookies),
		Description:  strings.TrimSpace(entry.Description),
		Enabled:      entry.enabled(),
	}
	if err := account.Validate(); err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

func disabledFromSchema(index int, entry accountSchema) domain.Account {
	account := domain.Account{
		Name:        strings.TrimSpace(entry.Name),
		Cookies:     strings.TrimSpace(entry.Cookies),
		Description: strings.TrimSpace(entry.Description),
	}
	if account.Name == "" {
		account.Name = fmt.Sprintf("account #%d", index+1)
	}
	if entry.SessionToken != nil {
		account.SessionToken = strings.TrimSpace(*entry.SessionToken)
	}

	return account
}
