package operations

import (
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

const moduleHoldings = "holdings"

func holdSchema() *schema.ObjectRule {
	return schema.Object(
		schema.Required("securities_holder_id", schema.Alphanum()),
		schema.Required("koresecurities_id", schema.Alphanum()),
		schema.Required("ats_id", schema.Alphanum()),
		schema.Required("ats_transaction_id", schema.Alphanum()),
		schema.Required("reason_code", schema.String()),
		schema.Required("number_of_shares", schema.Number().Min(0)),
		schema.Required("last_updated_at", schema.ISODate()),
	)
}

func holdingOperations() []Descriptor {
	purchase := schema.Object(
		schema.Required("source_system_id", schema.Alphanum()),
		schema.Required("company_id", schema.Alphanum()),
		schema.Required("securities_holder_id", schema.Alphanum()),
		schema.Required("koresecurities_id", schema.Alphanum()),
		schema.Required("certificate_number", schema.String().AllowEmpty()),
		schema.Required("holding_amount", schema.Number()),
		schema.Required("average_price", schema.Number()),
		schema.Required("date_acquired", schema.ISODate()),
	)

	transfer := schema.Object(
		schema.Required("company_id", schema.Alphanum()),
		schema.Required("koresecurities_id", schema.Alphanum()),
		schema.Required("owner_id", schema.Alphanum()),
		schema.Required("transferred_to_id", schema.Alphanum()),
		schema.Required("transfer_authorization_transaction_id", schema.Alphanum()),
		schema.Required("total_securities", schema.Number().Min(1)),
		schema.Required("effective_date", schema.ISODate()),
		schema.Required("transfer_type", schema.String().AllowEmpty()),
		schema.Required("transfer_requestor", schema.Alphanum()),
		schema.Required("transfer_approver", schema.Alphanum().AllowEmpty()),
	)

	updateTransfer := schema.Object(
		schema.Required("transfer_request_id", schema.Alphanum()),
		schema.Required("status", schema.Number().Min(1).Max(2)),
		schema.Required("reason", schema.Object(
			schema.Required("reason_code", schema.String().AllowEmpty()),
			schema.Required("reason_text", schema.String().AllowEmpty()),
		)),
	)

	updateHolding := holdSchema().Without("ats_id", "ats_transaction_id")

	bySecurities := alphanumSchema("company_id", "requestor_id", "koresecurities_id")
	byHolder := alphanumSchema("requestor_id", "securities_holder_id", "koresecurities_id")
	available := byHolder.Extend(schema.Required("number_of_shares", schema.Number().Min(0)))

	return []Descriptor{
		invoke(PostPurchaseKoreSecurities, moduleHoldings, "AddHolding", purchase, normalizeAcquisition),
		invoke(PostTransferSecuritiesRequest, moduleHoldings, "TransferSecurities", transfer, func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Float("total_securities").Time("effective_date").Stamp(env).TransactionID(env).Map(), nil
		}),
		invoke(PutTransferSecuritiesRequest, moduleHoldings, "UpdateTransferSecurities", updateTransfer, func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Int("status", 2).Stamp(env).TransactionID(env).Map(), nil
		}),
		invoke(PostPlaceHoldOnShares, moduleHoldings, "PlaceHoldOnShares", holdSchema(), normalizeHold),
		invoke(PostReleaseHoldOnShares, moduleHoldings, "ReleaseHoldOnShares", holdSchema(), normalizeHold),
		invoke(PutHolding, moduleHoldings, "UpdateHolding", updateHolding, normalizeHold),

		query(GetShareHoldersByComapny, moduleHoldings, "GetAllShareHoldersByComapny", alphanumSchema("company_id", "requestor_id")),
		query(GetShareHoldersBySecuritiesID, moduleHoldings, "GetAllShareHolders", bySecurities),
		query(GetTotalNumberOfSharesInHolding, moduleHoldings, "GetNumberOfSharesInHolding",
			alphanumSchema("company_id", "requestor_id", "koresecurities_id", "securities_holder_id")),
		query(GetHoldingsbySecuritiesID, moduleHoldings, "GetAllHoldingsByCompany", bySecurities),
		query(GetHoldingsIDBySecuritiesID, moduleHoldings, "GetAllHoldingsbySecuritiesID", bySecurities),
		query(GetTradableHoldings, moduleHoldings, "GetAllTradableHoldings", alphanumSchema("requestor_id", "securities_holder_id")),
		query(GetShareholderSecuritiesHoldingExists, moduleHoldings, "InvestorHoldingExists", byHolder),
		queryWith(GetShareholderHasAvailableShares, moduleHoldings, "GetAvailableShares", available, func(_ normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Float("number_of_shares").Map(), nil
		}),
	}
}

func normalizeHold(env normalize.Env, rec normalize.Record) (interface{}, error) {
	return rec.Float("number_of_shares").Time("last_updated_at").Stamp(env).Map(), nil
}
