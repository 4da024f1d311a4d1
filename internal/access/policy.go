// Package access decides what a principal may do. A policy maps (role, resource, operation)
// to a capability; the "own" capability admits the call but narrows it to the principal's
// warehouses through a Scope.
package access

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/angelmondragon/warehouse-backend/pkg/enums"
)

type Capability string

const (
	CapabilityAll  Capability = "all"
	CapabilityOwn  Capability = "own"
	CapabilityNone Capability = "none"
)

func (c Capability) IsValid() bool {
	switch c {
	case CapabilityAll, CapabilityOwn, CapabilityNone:
		return true
	}
	return false
}

type Operation string

const (
	OpGet    Operation = "get"
	OpPost   Operation = "post"
	OpPut    Operation = "put"
	OpDelete Operation = "delete"
	OpCommit Operation = "commit"
)

// Wildcard matches every resource or every operation in a policy entry.
const Wildcard = "*"

// Resources served by the API.
const (
	ResourceWarehouses  = "warehouses"
	ResourceLocations   = "locations"
	ResourceItems       = "items"
	ResourceItemLines   = "item_lines"
	ResourceItemGroups  = "item_groups"
	ResourceItemTypes   = "item_types"
	ResourceSuppliers   = "suppliers"
	ResourceClients     = "clients"
	ResourceInventories = "inventories"
	ResourceOrders      = "orders"
	ResourceShipments   = "shipments"
	ResourceTransfers   = "transfers"
)

// Decision is the outcome of CheckAccess.
type Decision struct {
	Allowed       bool
	OwnWarehouses bool
}

// Entry is one row of a policy file.
type Entry struct {
	Role       enums.Role `json:"role"`
	Resource   string     `json:"resource"`
	Operation  string     `json:"operation"`
	Capability Capability `json:"capability"`
}

type key struct {
	role      enums.Role
	resource  string
	operation string
}

// Policy is the capability table. It is read-only after construction.
type Policy struct {
	table map[key]Capability
}

func NewPolicy(entries []Entry) (*Policy, error) {
	p := &Policy{table: make(map[key]Capability, len(entries))}
	for i, e := range entries {
		if !e.Role.IsValid() {
			return nil, fmt.Errorf("policy entry %d: invalid role %q", i, e.Role)
		}
		if !e.Capability.IsValid() {
			return nil, fmt.Errorf("policy entry %d: invalid capability %q", i, e.Capability)
		}
		resource := strings.TrimSpace(e.Resource)
		operation := strings.ToLower(strings.TrimSpace(e.Operation))
		if resource == "" || operation == "" {
			return nil, fmt.Errorf("policy entry %d: resource and operation are required", i)
		}
		p.table[key{e.Role, resource, operation}] = e.Capability
	}
	return p, nil
}

// LoadPolicy reads a JSON array of entries. An empty path yields the built-in policy.
func LoadPolicy(path string) (*Policy, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read access policy: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode access policy: %w", err)
	}
	return NewPolicy(entries)
}

// Capability resolves the most specific entry; unlisted combinations are none.
func (p *Policy) Capability(role enums.Role, resource string, op Operation) Capability {
	operation := string(op)
	for _, k := range []key{
		{role, resource, operation},
		{role, resource, Wildcard},
		{role, Wildcard, operation},
		{role, Wildcard, Wildcard},
	} {
		if c, ok := p.table[k]; ok {
			return c
		}
	}
	return CapabilityNone
}

// CheckAccess decides whether principal may run op on resource.
func (p *Policy) CheckAccess(principal Principal, resource string, op Operation) Decision {
	switch p.Capability(principal.Role, resource, op) {
	case CapabilityAll:
		return Decision{Allowed: true}
	case CapabilityOwn:
		return Decision{Allowed: true, OwnWarehouses: true}
	default:
		return Decision{}
	}
}
