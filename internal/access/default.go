package access

import "github.com/angelmondragon/warehouse-backend/pkg/enums"

var (
	allResources = []string{Wildcard}

	classifications = []string{ResourceItemLines, ResourceItemGroups, ResourceItemTypes}
	aggregates      = []string{ResourceOrders, ResourceShipments, ResourceTransfers}
	scoped          = []string{ResourceLocations, ResourceInventories, ResourceOrders, ResourceItems}

	writes = []Operation{OpPost, OpPut}
	reads  = []Operation{OpGet}
)

type policyBuilder struct {
	entries []Entry
}

func (b *policyBuilder) grant(role enums.Role, capability Capability, ops []Operation, resources ...[]string) {
	for _, group := range resources {
		for _, resource := range group {
			for _, op := range ops {
				b.entries = append(b.entries, Entry{Role: role, Resource: resource, Operation: string(op), Capability: capability})
			}
		}
	}
}

// DefaultPolicy is the built-in table used when no policy file is configured. Later grants
// override earlier ones for the same key.
func DefaultPolicy() *Policy {
	b := &policyBuilder{}

	b.grant(enums.RoleAdmin, CapabilityAll, []Operation{Wildcard}, allResources)

	b.grant(enums.RoleWarehouseManager, CapabilityAll, reads, allResources)
	b.grant(enums.RoleWarehouseManager, CapabilityOwn, reads, scoped)
	b.grant(enums.RoleWarehouseManager, CapabilityAll, append(writes, OpDelete), []string{ResourceItems, ResourceSuppliers, ResourceClients, ResourceShipments, ResourceTransfers}, classifications)
	b.grant(enums.RoleWarehouseManager, CapabilityOwn, append(writes, OpDelete), []string{ResourceLocations, ResourceInventories, ResourceOrders})
	b.grant(enums.RoleWarehouseManager, CapabilityAll, writes, []string{ResourceWarehouses})
	b.grant(enums.RoleWarehouseManager, CapabilityOwn, []Operation{OpCommit}, []string{ResourceOrders})
	b.grant(enums.RoleWarehouseManager, CapabilityAll, []Operation{OpCommit}, []string{ResourceShipments, ResourceTransfers})

	b.grant(enums.RoleInventoryManager, CapabilityAll, reads, allResources)
	b.grant(enums.RoleInventoryManager, CapabilityAll, append(writes, OpDelete), []string{ResourceItems, ResourceInventories, ResourceSuppliers, ResourceLocations}, classifications)
	b.grant(enums.RoleInventoryManager, CapabilityAll, writes, []string{ResourceTransfers})
	b.grant(enums.RoleInventoryManager, CapabilityAll, []Operation{OpCommit}, []string{ResourceTransfers})

	b.grant(enums.RoleFloorManager, CapabilityAll, reads, []string{ResourceWarehouses, ResourceLocations, ResourceInventories, ResourceItems, ResourceShipments, ResourceTransfers, ResourceOrders}, classifications)
	b.grant(enums.RoleFloorManager, CapabilityAll, []Operation{OpPut}, []string{ResourceInventories}, aggregates)
	b.grant(enums.RoleFloorManager, CapabilityAll, []Operation{OpCommit}, []string{ResourceShipments, ResourceTransfers})

	b.grant(enums.RoleOperative, CapabilityOwn, reads, scoped)
	b.grant(enums.RoleOperative, CapabilityAll, reads, []string{ResourceWarehouses, ResourceShipments, ResourceTransfers}, classifications)
	b.grant(enums.RoleOperative, CapabilityOwn, []Operation{OpPut}, []string{ResourceInventories, ResourceOrders})
	b.grant(enums.RoleOperative, CapabilityOwn, []Operation{OpCommit}, []string{ResourceOrders})

	b.grant(enums.RoleSupervisor, CapabilityAll, reads, allResources)
	b.grant(enums.RoleSupervisor, CapabilityAll, []Operation{OpPut, OpCommit}, aggregates)
	b.grant(enums.RoleSupervisor, CapabilityAll, []Operation{OpPut}, []string{ResourceInventories})

	b.grant(enums.RoleAnalyst, CapabilityAll, reads, allResources)

	b.grant(enums.RoleLogistics, CapabilityAll, reads, allResources)
	b.grant(enums.RoleLogistics, CapabilityAll, append(writes, OpCommit), []string{ResourceShipments, ResourceTransfers})

	b.grant(enums.RoleSales, CapabilityAll, reads, []string{ResourceItems, ResourceClients, ResourceOrders, ResourceInventories, ResourceWarehouses}, classifications)
	b.grant(enums.RoleSales, CapabilityAll, writes, []string{ResourceClients, ResourceOrders})

	p, err := NewPolicy(b.entries)
	if err != nil {
		panic(err)
	}
	return p
}
