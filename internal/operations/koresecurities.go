package operations

import (
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

const moduleKoreSecurities = "koresecurities"

func koreSecuritiesOperations() []Descriptor {
	return []Descriptor{
		invoke(PostIssueSecurities, moduleKoreSecurities, "IssueSecurities", schema.Object(
			schema.Required("company_id", schema.Alphanum()),
			schema.Required("offering_memorandum_id", schema.Alphanum().AllowEmpty()),
			schema.Required("shareholder_agreement_id", schema.Alphanum().AllowEmpty()),
			schema.Required("certificate_number", schema.String().AllowEmpty()),
			schema.Required("securities_type", schema.String()),
			schema.Required("status", schema.Number()),
		), withStatus),
		query(GetSecuritiesByCompanyID, moduleKoreSecurities, "GetAllSecurities", schema.Object(
			schema.Required("company_id", schema.Alphanum()),
			schema.Required("requestor_id", schema.Alphanum().AllowEmpty()),
		)),
		query(GetSecuritiesByID, moduleKoreSecurities, "GetSecurities", idSchema()),
		invoke(PutSecurities, moduleKoreSecurities, "UpdateSecurities", schema.Object(
			schema.Required("available_securities", schema.Number()),
			schema.Required("koresecurities_id", schema.Alphanum()),
		), func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Float("available_securities").Stamp(env).Map(), nil
		}),
		invoke(PostCertificateText, moduleKoreSecurities, "AddSecuritiesCertificateText", schema.Object(
			schema.Required("company_id", schema.Alphanum()),
			schema.Required("koresecurities_id", schema.Alphanum()),
			schema.Required("certificate_text", schema.String()),
		), stamped),
		query(GetCertificateTextBySecuritiesID, moduleKoreSecurities, "GetAllSecuritiesCertificateTexts", alphanumSchema("koresecurities_id")),
		invoke(PostCertificate, moduleKoreSecurities, "AddCertificate", schema.Object(
			schema.Required("koretransaction_id", schema.Alphanum()),
			schema.Required("company_id", schema.Alphanum()),
			schema.Required("securities_holder_id", schema.Alphanum()),
			schema.Required("koresecurities_id", schema.Alphanum()),
			schema.Required("certificate_number", schema.String()),
			schema.Required("holding_amount", schema.Number()),
			schema.Required("average_price", schema.Number()),
			schema.Required("date_acquired", schema.ISODate()),
			schema.Required("status", schema.String()),
		), normalizeAcquisition),
		invoke(PutCertificate, moduleKoreSecurities, "UpdateCertificate", schema.Object(
			schema.Required("certificate_id", schema.Alphanum()),
			schema.Required("status", schema.String()),
		), stamped),
		invoke(PostSecuritiesExchangePrice, moduleKoreSecurities, "AddSecuritiesExchangePrice", schema.Object(
			schema.Required("company_id", schema.Alphanum()),
			schema.Required("koresecurities_id", schema.Alphanum()),
			schema.Required("quote_provider_id", schema.Alphanum()),
			schema.Required("exchange_unit", schema.String()),
			schema.Required("exchange_unit_type", schema.String()),
			schema.Required("exchange_price", schema.Number()),
			schema.Required("quote_date", schema.ISODate()),
		), func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Float("exchange_price").Time("quote_date").Stamp(env).Map(), nil
		}),
	}
}

// normalizeAcquisition shapes certificates and purchased holdings, which
// record an amount bought at an average price on a given date.
func normalizeAcquisition(env normalize.Env, rec normalize.Record) (interface{}, error) {
	return rec.Float("holding_amount", "average_price").
		Time("date_acquired").
		Stamp(env).
		TransactionID(env).
		Map(), nil
}
