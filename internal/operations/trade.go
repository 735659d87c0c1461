package operations

import (
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

const moduleTrade = "trade"

func tradeOperations() []Descriptor {
	request := schema.Object(
		schema.Required("shareholder_id", schema.Alphanum()),
		schema.Required("order_date", schema.ISODate()),
		schema.Required("direction", schema.String()),
		schema.Required("company_id", schema.Alphanum()),
		schema.Required("koresecurities_id", schema.Alphanum()),
		schema.Required("number_to_trade", schema.Number().Min(1)),
		schema.Required("trade_price", schema.Number().Min(0)),
		schema.Required("order_type", schema.String()),
		schema.Required("stop", schema.Number().Min(0).AllowEmpty()),
		schema.Required("limit", schema.Number().Min(0).AllowEmpty()),
		schema.Required("order_duration", schema.String().AllowEmpty()),
		schema.Required("order_expiry", schema.ISODate().AllowEmpty()),
		schema.Required("misc", schema.String().AllowEmpty()),
	)

	atsTrade := schema.Object(
		schema.Required("company_id", schema.Alphanum()),
		schema.Required("koresecurities_id", schema.Alphanum()),
		schema.Required("requestor_id", schema.Alphanum()),
		schema.Required("ats_transaction_id", schema.Alphanum()),
		schema.Required("owner_id", schema.Alphanum()),
		schema.Required("transferred_to_id", schema.Alphanum()),
		schema.Required("transfer_authorization_transaction_id", schema.Alphanum()),
		schema.Required("effective_date", schema.ISODate()),
		schema.Required("total_securities", schema.Number().Min(1)),
		schema.Required("trade_price", schema.Number().Min(0)),
	)

	return []Descriptor{
		invoke(PostTradeRequest, moduleTrade, "AddTradeRequest", request, func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Time("order_date", "order_expiry").
				Float("number_to_trade", "trade_price", "limit", "stop").
				Stamp(env).
				Map(), nil
		}),
		// Listing trade requests is submitted rather than evaluated.
		invoke(GetTradeRequests, moduleTrade, "GetAllTradeRequests", alphanumSchema("shareholder_id", "company_id", "requestor_id"), nil),
		invoke(PostATSTrade, moduleTrade, "AddATSTrade", atsTrade, func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return rec.Time("effective_date").
				Float("total_securities", "trade_price").
				Stamp(env).
				TransactionID(env).
				Map(), nil
		}),
	}
}
