package auth

import "github.com/junaidrashid-git/storefront/models"

// Capability names one mutating action.
type Capability string

const (
	CapProductsCreate   Capability = "products:create"
	CapProductsUpdate   Capability = "products:update"
	CapProductsDelete   Capability = "products:delete"
	CapMediaManage      Capability = "media:manage"
	CapCategoriesManage Capability = "categories:manage"
	CapCatalogImport    Capability = "catalog:import"
	CapUsersManage      Capability = "users:manage"
	CapReviewsModerate  Capability = "reviews:moderate"
)

var grants = map[models.Role]map[Capability]bool{
	models.RoleAdmin: {
		CapProductsCreate:   true,
		CapProductsUpdate:   true,
		CapProductsDelete:   true,
		CapMediaManage:      true,
		CapCategoriesManage: true,
		CapCatalogImport:    true,
		CapUsersManage:      true,
		CapReviewsModerate:  true,
	},
	models.RoleModerator: {
		CapProductsCreate: true,
		CapProductsUpdate: true,
		CapMediaManage:    true,
		CapCatalogImport:  true,
	},
}

// Can reports whether role holds capability.
func Can(role models.Role, capability Capability) bool {
	return grants[role][capability]
}
