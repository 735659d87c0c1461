package operations

import (
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

const moduleKoreContract = "korecontract"

func registerKoreContractSchema() *schema.ObjectRule {
	keyword := schema.Object(schema.Required("keyword", schema.String().AllowEmpty()))
	meta := schema.Object(
		schema.Required("version", schema.String()),
		schema.Required("author", schema.Alphanum()),
		schema.Required("company", schema.Alphanum()),
		schema.Required("description", schema.String().AllowEmpty()),
		schema.Required("contract_text", schema.String().AllowEmpty()),
		schema.Required("category", schema.String().AllowEmpty()),
		schema.Required("subcategory", schema.String().AllowEmpty()),
		schema.Required("keywords", schema.Array(keyword)),
		schema.Required("date_created", schema.ISODate()),
		schema.Required("date_until", schema.String().AllowEmpty()),
	)
	return schema.Object(
		schema.Required("id", schema.Alphanum()),
		schema.Required("rules", schema.Array(schema.String())),
		schema.Required("meta", meta),
	)
}

func offeringMemorandumSchema() *schema.ObjectRule {
	reference := schema.Object(
		schema.Required("reference_id", schema.Alphanum()),
		schema.Required("reference_name", schema.String()),
	)
	jurisdiction := schema.Object(
		schema.Required("country", schema.String().Min(2).Max(2)),
		schema.Required("state", schema.String().AllowEmpty().Min(1).Max(3)),
	)
	detail := schema.Object(
		schema.Required("offering_type", schema.String()),
		schema.Required("offering_currency", schema.Alphanum()),
		schema.Required("offering_amount", schema.Number().Min(1)),
		schema.Required("offering_securities_number", schema.Number().Min(1)),
		schema.Required("offering_price_per_security", schema.Number().Min(0)),
		schema.Required("offering_securities_class", schema.String().AllowEmpty()),
		schema.Required("offering_start_date", schema.ISODate()),
		schema.Required("offering_end_date", schema.ISODate()),
		schema.Required("references", schema.Array(reference)),
	)
	return schema.Object(
		schema.Required("company_id", schema.Alphanum()),
		schema.Required("document_id", schema.Alphanum().AllowEmpty()),
		schema.Required("company_symbol", schema.Alphanum().AllowEmpty().Min(3).Max(50)),
		schema.Required("public_reporting_company", schema.Bool()),
		schema.Required("issuance_jurisdictions", schema.Array(jurisdiction)),
		schema.Required("exemptions", schema.Array(schema.String())),
		schema.Required("broker_dealers", schema.Array(schema.Alphanum())),
		schema.Required("offering_detail", detail),
		schema.Required("status", schema.Number()),
	)
}

func koreContractOperations() []Descriptor {
	variables := []schema.Field{
		schema.Optional("variables", schema.Map()),
		schema.Required("return_variables", schema.Array(schema.String())),
	}

	execute := schema.Object(append([]schema.Field{
		schema.Required("id", schema.Alphanum()),
		schema.Required("company", schema.Alphanum()),
		schema.Required("transaction_id", schema.Alphanum()),
		schema.Required("version", schema.Alphanum()),
	}, variables...)...)

	test := schema.Object(append([]schema.Field{
		schema.Required("rules", schema.Array(schema.String())),
	}, variables...)...)

	return []Descriptor{
		invoke(PostRegisterKoreContract, moduleKoreContract, "AddKorecontract", registerKoreContractSchema(), normalizeRegisterKoreContract),
		queryWith(PostExecuteKoreContract, moduleKoreContract, "ExecuteKorecontract", execute, func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			rec[normalize.CurrentDateField] = env.Timestamp()
			return rec.Encode("variables").Map(), nil
		}),
		queryWith(PostTestKoreContract, moduleKoreContract, "TestKorecontract", test, func(_ normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Encode("variables").Map(), nil
		}),
		invoke(PostDocument, moduleKoreContract, "AddDocument", schema.Object(
			schema.Required("document_source_id", schema.Alphanum()),
			schema.Required("document_hash", schema.Alphanum()),
			schema.Required("entity_id", schema.Alphanum()),
			schema.Required("hash_algorithm", schema.String()),
			schema.Required("status", schema.Number()),
		), withStatus),
		invoke(PostOfferingMemorandum, moduleKoreContract, "AddOfferingMemorandum", offeringMemorandumSchema(), normalizeOfferingMemorandum),
		invoke(PostShareholderAgreement, moduleKoreContract, "AddShareHolderAgreement", shareholderAgreementSchema(), normalizeShareholderAgreement),
		invoke(PostSubscriptionAgreement, moduleKoreContract, "AddSubscriptionAgreement", schema.Object(
			schema.Required("company_id", schema.Alphanum()),
			schema.Required("document_id", schema.Alphanum().AllowEmpty()),
			schema.Required("date", schema.ISODate()),
			schema.Required("agreement_text", schema.String()),
			schema.Required("status", schema.Number()),
		), func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			rec.Time("date")
			return withStatus(env, rec)
		}),
		invoke(PostPaymentMethod, moduleKoreContract, "AddPaymentMethod", schema.Object(
			schema.Required("transaction_date", schema.ISODate()),
			schema.Required("payment_type", schema.String()),
			schema.Required("ip_address", schema.String().IP()),
			schema.Required("payer_id", schema.Alphanum()),
			schema.Required("amount", schema.String()),
			schema.Required("currency", schema.String()),
			schema.Required("payment_method", schema.String()),
		), func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Time("transaction_date").Float("amount").Stamp(env).Map(), nil
		}),
		invoke(PostSecuritiesInstrument, moduleKoreContract, "AddSecuritiesInstrument", schema.Object(
			schema.Required("securities_type", schema.String()),
			schema.Required("name", schema.String()),
			schema.Required("class_type", schema.String()),
		), stamped),
	}
}

// withStatus reads status as an integer and stamps created_at.
func withStatus(env normalize.Env, rec normalize.Record) (interface{}, error) {
	return rec.Int("status", 0).Stamp(env).Map(), nil
}

func normalizeRegisterKoreContract(env normalize.Env, rec normalize.Record) (interface{}, error) {
	rec.Child("meta").Time("date_created").TimeOrDrop("date_until")
	return rec.Stamp(env).Map(), nil
}

func normalizeOfferingMemorandum(env normalize.Env, rec normalize.Record) (interface{}, error) {
	rec.Child("offering_detail").
		Float("offering_amount", "offering_securities_number", "offering_price_per_security").
		Time("offering_start_date", "offering_end_date").
		List("references")

	return rec.Bool("public_reporting_company").
		List("issuance_jurisdictions", "exemptions", "broker_dealers").
		Int("status", 0).
		Stamp(env).
		Map(), nil
}
