package processors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/homeledger/backend/src/logger"
	"github.com/username/homeledger/backend/src/models"
	"github.com/username/homeledger/backend/src/store"
)

// providerTypeRules maps lower-cased provider label substrings to account
// types, tested in order; first match wins. Unmatched providers default to
// checking.
var providerTypeRules = []struct {
	substr  string
	accType string
}{
	{"amex", models.AccountTypeCredit},
	{"american express", models.AccountTypeCredit},
	{"virgin credit card", models.AccountTypeCredit},
	{"lloyds", models.AccountTypeChecking},
	{"monzo", models.AccountTypeChecking},
	{"starling", models.AccountTypeChecking},
	{"hsbc", models.AccountTypeChecking},
	{"barclays", models.AccountTypeChecking},
	{"natwest", models.AccountTypeChecking},
	{"santander", models.AccountTypeChecking},
	{"nationwide", models.AccountTypeChecking},
}

// InferAccountType guesses an account type from a provider label.
func InferAccountType(provider string) string {
	lower := strings.ToLower(provider)
	for _, rule := range providerTypeRules {
		if strings.Contains(lower, rule.substr) {
			return rule.accType
		}
	}
	return models.AccountTypeChecking
}

// AccountDisplayName is the idempotency key for imported accounts: repeated
// imports of the same (provider, name) pair always land on one account.
func AccountDisplayName(provider, name string) string {
	return fmt.Sprintf("%s - %s", provider, name)
}

type accountKey struct {
	provider string
	name     string
}

// AccountResolver maps (provider, account-name) pairs to ledger accounts
// through a per-batch cache. The cache is primed from every row of the
// batch before any row is written, so account creation does not depend on
// row order.
type AccountResolver struct {
	store          store.Store
	userID         int64
	autoCreate     bool
	defaultAccount *models.Account
	currency       string

	cache   map[accountKey]*models.Account
	created []string
}

func NewAccountResolver(st store.Store, userID int64, autoCreate bool, defaultAccount *models.Account, currency string) *AccountResolver {
	return &AccountResolver{
		store:          st,
		userID:         userID,
		autoCreate:     autoCreate,
		defaultAccount: defaultAccount,
		currency:       currency,
		cache:          make(map[accountKey]*models.Account),
	}
}

// Prime collects the distinct (provider, name) pairs across all rows and
// gets-or-creates their accounts. Pairs are processed in sorted order so
// creation is deterministic. Does nothing when auto-creation is disabled.
func (r *AccountResolver) Prime(ctx context.Context, rows []models.StatementRow) error {
	if !r.autoCreate {
		return nil
	}

	// Keys are canonicalized exactly like the normalizer's record fields,
	// otherwise Resolve can miss accounts Prime just created.
	unique := make(map[accountKey]bool)
	for _, row := range rows {
		provider := cleanText(row.Get(models.ColAccountProvider))
		name := cleanText(row.Get(models.ColAccountName))
		if provider != "" && name != "" {
			unique[accountKey{provider, name}] = true
		}
	}

	keys := make([]accountKey, 0, len(unique))
	for k := range unique {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].provider != keys[j].provider {
			return keys[i].provider < keys[j].provider
		}
		return keys[i].name < keys[j].name
	})

	for _, k := range keys {
		acct := &models.Account{
			UserID:   r.userID,
			Name:     AccountDisplayName(k.provider, k.name),
			Type:     InferAccountType(k.provider),
			Balance:  decimal.Zero,
			Currency: r.currency,
		}
		created, err := r.store.GetOrCreateAccount(ctx, acct)
		if err != nil {
			return fmt.Errorf("resolving account %q: %w", acct.Name, err)
		}
		if created {
			r.created = append(r.created, acct.Name)
			logger.L.Info("Auto-created account from statement", "userID", r.userID, "account", acct.Name, "type", acct.Type)
		}
		r.cache[k] = acct
	}
	return nil
}

// Resolve returns the cached account for a (provider, name) pair, falling
// back to the caller-supplied default account. A nil result means the row
// has no account and must be skipped.
func (r *AccountResolver) Resolve(provider, name string) *models.Account {
	if acct, ok := r.cache[accountKey{provider, name}]; ok {
		return acct
	}
	return r.defaultAccount
}

// CreatedAccounts lists the display names of accounts this batch created.
func (r *AccountResolver) CreatedAccounts() []string {
	return r.created
}
