package shared

// Inventory permissions.
const (
	PermInventoryView   = "inventory.view"
	PermInventoryMove   = "inventory.move"
	PermInventoryAdjust = "inventory.adjust"
)

// InventoryScopes lists all inventory related permissions.
func InventoryScopes() []string {
	return []string{
		PermInventoryView,
		PermInventoryMove,
		PermInventoryAdjust,
	}
}
