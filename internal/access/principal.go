package access

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/angelmondragon/warehouse-backend/pkg/auth"
	"github.com/angelmondragon/warehouse-backend/pkg/enums"
)

// Principal is the authenticated caller.
type Principal struct {
	User       string     `json:"user"`
	Role       enums.Role `json:"role"`
	Warehouses []int      `json:"warehouses"`
}

// FromClaims builds the principal carried by a bearer token.
func FromClaims(claims *auth.AccessTokenClaims) Principal {
	return Principal{
		User:       claims.User,
		Role:       claims.Role,
		Warehouses: slices.Clone(claims.Warehouses),
	}
}

// Scope returns the warehouse restriction applied when decision says own-warehouses only.
func (p Principal) Scope(decision Decision) *Scope {
	if !decision.OwnWarehouses {
		return nil
	}
	return ForWarehouses(p.Warehouses)
}

// APIKey is one row of the key file.
type APIKey struct {
	Key string `json:"key"`
	Principal
}

// KeyTable resolves API_KEY header values to principals.
type KeyTable struct {
	keys map[string]Principal
}

func NewKeyTable(keys []APIKey) (*KeyTable, error) {
	t := &KeyTable{keys: make(map[string]Principal, len(keys))}
	for i, k := range keys {
		value := strings.TrimSpace(k.Key)
		if value == "" {
			return nil, fmt.Errorf("api key %d: key is required", i)
		}
		if !k.Role.IsValid() {
			return nil, fmt.Errorf("api key %d: invalid role %q", i, k.Role)
		}
		if _, dup := t.keys[value]; dup {
			return nil, fmt.Errorf("api key %d: duplicate key", i)
		}
		t.keys[value] = k.Principal
	}
	return t, nil
}

// LoadKeyTable reads the JSON key file. An empty path yields an empty table.
func LoadKeyTable(path string) (*KeyTable, error) {
	if strings.TrimSpace(path) == "" {
		return NewKeyTable(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read api keys: %w", err)
	}
	var keys []APIKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("decode api keys: %w", err)
	}
	return NewKeyTable(keys)
}

func (t *KeyTable) Lookup(key string) (Principal, bool) {
	if t == nil {
		return Principal{}, false
	}
	p, ok := t.keys[strings.TrimSpace(key)]
	if !ok {
		return Principal{}, false
	}
	p.Warehouses = slices.Clone(p.Warehouses)
	return p, true
}

func (t *KeyTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}
