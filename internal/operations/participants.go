package operations

import (
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

const (
	moduleTransferAgent = "transfer-agent"
	moduleBrokerDealer  = "broker-dealer"
	moduleATSOperator   = "ats-operator"
)

// registrationFields are shared by transfer agents, broker-dealers and ATS
// operators. idField names the participant's own identifier.
func registrationFields(idField string) []schema.Field {
	return []schema.Field{
		schema.Required(idField, schema.String()),
		schema.Required("source_system_id", schema.String()),
		schema.Required("corporate_name", schema.String()),
		schema.Required("registration_number", schema.Alphanum()),
		schema.Required("registration_authority", schema.Alphanum()),
	}
}

func participantSchema(idField string, extra ...schema.Field) *schema.ObjectRule {
	fields := append(registrationFields(idField), extra...)
	fields = append(fields,
		schema.Required("domicile", domicileSchema()),
		schema.Required("status", schema.Number()),
	)
	return schema.Object(fields...)
}

func participantOperations() []Descriptor {
	ats := participantSchema("ats_operator_id",
		schema.Required("type_of_license", schema.String()),
		schema.Required("license_grant_type", schema.String()),
		schema.Required("registration_date", schema.ISODate()),
		schema.Required("registration_expiry_date", schema.ISODate()),
	)

	return []Descriptor{
		// Transfer agent status is passed through as validated.
		invoke(PostTransferAgent, moduleTransferAgent, "AddTransferAgent", participantSchema("transfer_agent_id"), func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.List("domicile").Stamp(env).Map(), nil
		}),
		query(GetTransferAgentByID, moduleTransferAgent, "GetTransferAgent", idSchema()),
		invoke(PutAssociateTransferAgentWithCompany, moduleTransferAgent, "AssociateTransferAgent",
			alphanumSchema("company_id", "transfer_agent_id"), stamped),

		invoke(PostBrokerDealer, moduleBrokerDealer, "AddBrokerDealer", participantSchema("broker_dealer_id"), func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.List("domicile").Int("status", 0).Stamp(env).Map(), nil
		}),
		query(GetBrokerDealerByID, moduleBrokerDealer, "GetBrokerDealer", idSchema()),
		invoke(PutAssociateBrokerDealerWithCompany, moduleBrokerDealer, "AssociateBrokerDealer", associationSchema(), normalizeAssociation),
		invoke(PutAssociateBrokerDealerWithSecurity, moduleBrokerDealer, "AssociateBrokerWithSecurity",
			alphanumSchema("company_id", "broker_dealer_id", "koresecurities_id"), stamped),

		invoke(PostATSOperator, moduleATSOperator, "AddATSOperator", ats, func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Time("registration_date", "registration_expiry_date").
				List("domicile").
				Int("status", 0).
				Stamp(env).
				Map(), nil
		}),
		query(GetATSOperatorByID, moduleATSOperator, "GetATSOperator", idSchema()),
		invoke(PutAssociateATSOperatorWithCompany, moduleATSOperator, "AssociateATSOperator", associationSchema(), normalizeAssociation),
		invoke(PutAssociateAtsOperatorWithSecurity, moduleATSOperator, "AssociateATSWithSecurity",
			alphanumSchema("company_id", "ats_operator_id", "koresecurities_id"), stamped),
	}
}
