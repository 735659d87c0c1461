package operations

import (
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

const moduleCompany = "company"

func companyFields() []schema.Field {
	registration := schema.Object(
		schema.Required("registration_id", schema.String()),
		schema.Required("registration_domicile", schema.String()),
		schema.Required("registration_authority", schema.String()),
		schema.Required("registration_record_url", schema.String().AllowEmpty()),
	)
	source := schema.Object(
		schema.Required("source_system_id", schema.String()),
		schema.Required("source_platform_id", schema.String()),
	)
	verification := schema.Object(
		schema.Required("verification_type", schema.String().AllowEmpty()),
		schema.Required("verifying_org", schema.String().AllowEmpty()),
		schema.Required("verification_id", schema.String().AllowEmpty()),
		schema.Required("verification_url", schema.String().AllowEmpty()),
		schema.Required("verification_date", schema.ISODate().AllowEmpty()),
	)
	otherReference := schema.Object(
		schema.Required("other_reference_id", schema.String().AllowEmpty()),
		schema.Required("other_platform_id", schema.String().AllowEmpty()),
	)

	return []schema.Field{
		schema.Required("cd", schema.String().AllowEmpty()),
		schema.Required("company_id", schema.Array(registration)),
		schema.Required("source", source),
		schema.Required("verifications", schema.Array(verification)),
		schema.Required("other_references", schema.Array(otherReference)),
	}
}

func companyStatusSchema() *schema.ObjectRule {
	reference := schema.Object(
		schema.Required("authorization_reference", schema.String()),
		schema.Required("effective_start_date", schema.ISODate()),
		schema.Required("effective_end_date", schema.ISODate().AllowEmpty()),
		schema.Required("authorization_date", schema.ISODate().AllowEmpty()),
		schema.Required("authorizing_entity_id", schema.String()),
	)
	return schema.Object(
		schema.Required("company_id", schema.Alphanum()),
		schema.Required("status", schema.Bool()),
		schema.Required("reference_details", schema.Array(reference).Min(1)),
	)
}

func companyOperations() []Descriptor {
	addCompany := schema.Object(append(companyFields(), schema.Required("status", schema.Number()))...)
	updateCompany := schema.Object(append([]schema.Field{schema.Required("id", schema.Alphanum())}, companyFields()...)...)

	update := invoke(PutCompany, moduleCompany, "UpdateCompany", updateCompany, normalizeCompanyUpdate)
	update.Pack = func(normalized interface{}) interface{} {
		rec, _ := normalized.(map[string]interface{})
		return map[string]interface{}{"id": rec["id"], "data": rec}
	}

	return []Descriptor{
		invoke(PostCompany, moduleCompany, "AddCompany", addCompany, func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return NormalizeCompany(env, rec), nil
		}),
		query(GetCompaniesByRequestorID, moduleCompany, "GetAllCompaniesByRequestorID", alphanumSchema("requestor_id")),
		query(GetCompanyByID, moduleCompany, "GetCompany", idSchema()),
		update,
		invoke(PutCompanyBankruptcyProceedingStatus, moduleCompany, "CompanyBankruptcyProceedingStatus", companyStatusSchema(), normalizeCompanyStatus),
		invoke(PutCompanyRegulatoryInjunctionStatus, moduleCompany, "CompanyRegulatoryInjunctionStatus", companyStatusSchema(), normalizeCompanyStatus),
		invoke(PutCompanyHoldByATSOperatorStatus, moduleCompany, "CompanyHoldByATSOperatorStatus", companyStatusSchema(), normalizeCompanyStatus),
		invoke(PutAssociateNotificationURLWithCompany, moduleCompany, "AssociateNotificationURLWithCompany", schema.Object(
			schema.Required("company_id", schema.Alphanum()),
			schema.Required("url", schema.String().URI()),
		), stamped),
		query(GetManagementPeopleByCompany, moduleCompany, "GetManagementPeople", alphanumSchema("company_id")),
		invoke(PostManagementToCompany, moduleCompany, "AssignManagementPeople", schema.Object(
			schema.Required("company_id", schema.Alphanum()),
			schema.Required("person_id", schema.Alphanum()),
			schema.Required("start_date", schema.ISODate()),
			schema.Required("shareholder_vote_transaction_id", schema.Alphanum().AllowEmpty()),
			schema.Required("role", schema.String()),
		), func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Time("start_date").Stamp(env).Map(), nil
		}),
		invoke(DeleteManagementFromCompany, moduleCompany, "RemoveManagementPeople", schema.Object(
			schema.Required("company_id", schema.Alphanum()),
			schema.Required("person_id", schema.Alphanum()),
			schema.Required("end_date", schema.ISODate()),
			schema.Required("role", schema.String()),
		), func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Time("end_date").Stamp(env).Map(), nil
		}),
	}
}

// NormalizeCompany shapes a company record. It is shared by postCompany and
// the company bulk import.
func NormalizeCompany(env normalize.Env, rec normalize.Record) map[string]interface{} {
	rec.List("company_id", "verifications", "other_references").
		Each("verifications", func(v normalize.Record) { v.Time("verification_date") }).
		Int("status", 0).
		Stamp(env)
	return rec.Map()
}

func normalizeCompanyUpdate(env normalize.Env, rec normalize.Record) (interface{}, error) {
	rec.List("company_id", "verifications", "other_references").
		Each("verifications", func(v normalize.Record) { v.Time("verification_date") }).
		Stamp(env)
	return rec.Map(), nil
}

func normalizeCompanyStatus(env normalize.Env, rec normalize.Record) (interface{}, error) {
	rec.Bool("status").
		Each("reference_details", func(r normalize.Record) {
			r.Time("effective_start_date", "effective_end_date", "authorization_date")
		}).
		Stamp(env)
	return rec.Map(), nil
}
