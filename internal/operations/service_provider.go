package operations

import (
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

const moduleServiceProvider = "service-provider"

func serviceProviderOperations() []Descriptor {
	add := schema.Object(
		schema.Required("registration_number", schema.String().AllowEmpty()),
		schema.Required("registration_authority", schema.String().AllowEmpty()),
		schema.Required("legal_name", schema.String().Min(3).Max(100)),
		schema.Required("country", schema.String().Min(2).Max(2)),
		schema.Required("service_name", schema.String()),
		schema.Required("source_system_id", schema.String()),
		schema.Required("status", schema.Number()),
	)

	// The lookup is submitted as a transaction, as the contract expects.
	get := invoke(GetServiceProviderByID, moduleServiceProvider, "GetServiceProviderByID", idSchema(), stamped)

	return []Descriptor{
		invoke(PostServiceProvider, moduleServiceProvider, "AddServiceProvider", add, withStatus),
		get,
		invoke(PutAssociateServiceProviderWithCompany, moduleServiceProvider, "AssociateServiceProvider", associationSchema(), normalizeAssociation),
	}
}
