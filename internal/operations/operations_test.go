package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
)

func registerKoreContractPayload(until string) map[string]interface{} {
	return map[string]interface{}{
		"id":    "kc1",
		"rules": []interface{}{"rule a"},
		"meta": map[string]interface{}{
			"version": "1", "author": "a1", "company": "c1", "description": "", "contract_text": "",
			"category": "", "subcategory": "", "keywords": []interface{}{},
			"date_created": "2024-01-02", "date_until": until,
		},
	}
}

func companyPayload() map[string]interface{} {
	return map[string]interface{}{
		"cd": "",
		"company_id": []interface{}{map[string]interface{}{
			"registration_id": "r1", "registration_domicile": "US", "registration_authority": "SEC", "registration_record_url": "",
		}},
		"source":           map[string]interface{}{"source_system_id": "s1", "source_platform_id": "p1"},
		"verifications":    []interface{}{map[string]interface{}{"verification_type": "", "verifying_org": "", "verification_id": "", "verification_url": "", "verification_date": "2023-07-01T12:00:00Z"}},
		"other_references": []interface{}{},
	}
}

func TestPostCompany(t *testing.T) {
	c := newTestCatalog(t)

	payload := companyPayload()
	payload["status"] = "3"

	out, err := prepare(t, c, PostCompany, payload)
	require.NoError(t, err)

	rec := roundTrip(t, out)
	assert.Equal(t, float64(3), rec["status"])
	assert.Equal(t, testStamp, rec["created_at"])
	verification := rec["verifications"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "2023-07-01T12:00:00.000Z", verification["verification_date"])
}

func TestPutCompanyPacksIDAndData(t *testing.T) {
	c := newTestCatalog(t)

	payload := companyPayload()
	payload["id"] = "c1"

	out, err := prepare(t, c, PutCompany, payload)
	require.NoError(t, err)

	body := roundTrip(t, out)
	assert.Equal(t, "c1", body["id"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "c1", data["id"])
	assert.Equal(t, testStamp, data["created_at"])
	assert.NotContains(t, data, "status")
}

func TestCompanyStatusCoercesBool(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PutCompanyHoldByATSOperatorStatus, map[string]interface{}{
		"company_id": "c1",
		"status":     "true",
		"reference_details": []interface{}{map[string]interface{}{
			"authorization_reference": "ref", "effective_start_date": "2024-01-01", "effective_end_date": "",
			"authorization_date": "2024-01-02T03:04:05Z", "authorizing_entity_id": "e1",
		}},
	})
	require.NoError(t, err)

	rec := roundTrip(t, out)
	assert.Equal(t, true, rec["status"])
	ref := rec["reference_details"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "2024-01-01T00:00:00.000Z", ref["effective_start_date"])
	assert.Equal(t, "", ref["effective_end_date"])
	assert.Equal(t, "2024-01-02T03:04:05.000Z", ref["authorization_date"])
}

func personPayload(verified string) map[string]interface{} {
	return map[string]interface{}{
		"pd":        "encrypted",
		"source_id": "",
		"verifications": map[string]interface{}{
			"kyc_verification": map[string]interface{}{
				"provider_id": "p1", "profile_id": "", "verification_date": verified, "verification_expiry_date": "",
				"tid": "t1", "overall_status": "passed", "kyc_report_hash": "h",
			},
		},
		"status": 1,
	}
}

func TestPostPersonRejectsFutureVerification(t *testing.T) {
	c := newTestCatalog(t)

	_, err := prepare(t, c, PostPerson, personPayload("2999-01-01"))
	require.Error(t, err)
	assert.Equal(t, svcerrors.MsgFutureVerification, svcerrors.GetServiceError(err).Message)

	_, err = prepare(t, c, PostPerson, personPayload(testStamp))
	require.Error(t, err, "the current instant is not in the past")
}

func TestPostPersonNormalizesDates(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PostPerson, personPayload("2020-01-01T00:00:00+01:00"))
	require.NoError(t, err)

	rec := roundTrip(t, out)
	kyc := rec["verifications"].(map[string]interface{})["kyc_verification"].(map[string]interface{})
	assert.Equal(t, "2019-12-31T23:00:00.000Z", kyc["verification_date"])
	assert.Equal(t, "", kyc["verification_expiry_date"])
	assert.Equal(t, float64(1), rec["status"])
}

func TestAssociationCanonicalDate(t *testing.T) {
	c := newTestCatalog(t)

	for _, key := range []Key{PutAssociateServiceProviderWithCompany, PutAssociateBrokerDealerWithCompany, PutAssociateATSOperatorWithCompany} {
		out, err := prepare(t, c, key, map[string]interface{}{
			"company_id": "c1", "association_date": "2024-03-04", "data": []interface{}{"sp1", "sp2"},
		})
		require.NoError(t, err, key)

		rec := roundTrip(t, out)
		assert.Equal(t, "2024-03-04T00:00:00.000Z", rec["association_date"], key)
		assert.Equal(t, testStamp, rec["created_at"], key)
	}
}

func TestPostATSOperator(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PostATSOperator, map[string]interface{}{
		"ats_operator_id": "ats-1", "source_system_id": "s", "corporate_name": "Venue", "registration_number": "R1",
		"registration_authority": "FINRA", "type_of_license": "full", "license_grant_type": "grant",
		"registration_date": "2020-01-01", "registration_expiry_date": "2030-01-01",
		"domicile": []interface{}{map[string]interface{}{"country": "US", "state": []interface{}{"NY"}}},
		"status":   "2",
	})
	require.NoError(t, err)

	rec := roundTrip(t, out)
	assert.Equal(t, "2030-01-01T00:00:00.000Z", rec["registration_expiry_date"])
	assert.Equal(t, float64(2), rec["status"])
}

func TestTransferAgentStatusPassesThrough(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PostTransferAgent, map[string]interface{}{
		"transfer_agent_id": "ta-1", "source_system_id": "s", "corporate_name": "Agent", "registration_number": "R1",
		"registration_authority": "SEC", "domicile": []interface{}{}, "status": 1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.5, roundTrip(t, out)["status"])
}

func TestPaymentAmountFailsOpen(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PostPaymentMethod, map[string]interface{}{
		"transaction_date": "2024-01-01", "payment_type": "card", "ip_address": "10.0.0.1",
		"payer_id": "p1", "amount": "abc", "currency": "USD", "payment_method": "visa",
	})
	require.NoError(t, err)

	rec := roundTrip(t, out)
	assert.Equal(t, float64(0), rec["amount"])
	assert.Equal(t, "2024-01-01T00:00:00.000Z", rec["transaction_date"])
}

func TestPaymentRejectsBadIP(t *testing.T) {
	c := newTestCatalog(t)

	_, err := prepare(t, c, PostPaymentMethod, map[string]interface{}{
		"transaction_date": "2024-01-01", "payment_type": "card", "ip_address": "not-an-ip",
		"payer_id": "p1", "amount": "1", "currency": "USD", "payment_method": "visa",
	})
	require.Error(t, err)
	assert.Equal(t, `"ip_address" must be a valid ip address`, svcerrors.GetServiceError(err).Message)
}

func TestRegisterKoreContractDateUntil(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PostRegisterKoreContract, registerKoreContractPayload(""))
	require.NoError(t, err)
	meta := roundTrip(t, out)["meta"].(map[string]interface{})
	assert.Equal(t, "2024-01-02T00:00:00.000Z", meta["date_created"])
	assert.NotContains(t, meta, "date_until")

	out, err = prepare(t, c, PostRegisterKoreContract, registerKoreContractPayload("2025-06-01"))
	require.NoError(t, err)
	meta = roundTrip(t, out)["meta"].(map[string]interface{})
	assert.Equal(t, "2025-06-01T00:00:00.000Z", meta["date_until"])
}

func TestExecuteKoreContractEncodesVariables(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PostExecuteKoreContract, map[string]interface{}{
		"id": "kc1", "company": "c1", "transaction_id": "t1", "version": "v1",
		"variables":        map[string]interface{}{"amount": 5},
		"return_variables": []interface{}{"result"},
	})
	require.NoError(t, err)

	rec := roundTrip(t, out)
	assert.Equal(t, `{"amount":5}`, rec["variables"])
	assert.Equal(t, testStamp, rec["current_date"])

	out, err = prepare(t, c, PostTestKoreContract, map[string]interface{}{
		"rules":            []interface{}{"r"},
		"return_variables": []interface{}{"result"},
	})
	require.NoError(t, err)
	assert.NotContains(t, roundTrip(t, out), "variables")
}

func TestOfferingMemorandumKeepsOfferingDetail(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PostOfferingMemorandum, map[string]interface{}{
		"company_id": "c1", "document_id": "", "company_symbol": "", "public_reporting_company": "false",
		"issuance_jurisdictions": []interface{}{map[string]interface{}{"country": "US", "state": ""}},
		"exemptions":             []interface{}{"Reg D"},
		"broker_dealers":         []interface{}{},
		"offering_detail": map[string]interface{}{
			"offering_type": "equity", "offering_currency": "USD", "offering_amount": "1000",
			"offering_securities_number": 10, "offering_price_per_security": 100, "offering_securities_class": "",
			"offering_start_date": "2024-01-01", "offering_end_date": "2024-12-31", "references": []interface{}{},
		},
		"status": 0,
	})
	require.NoError(t, err)

	rec := roundTrip(t, out)
	assert.Equal(t, false, rec["public_reporting_company"])
	detail := rec["offering_detail"].(map[string]interface{})
	assert.Equal(t, "equity", detail["offering_type"])
	assert.Equal(t, float64(1000), detail["offering_amount"])
	assert.Equal(t, "2024-12-31T00:00:00.000Z", detail["offering_end_date"])
}

func TestShareholderAgreementDefaults(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PostShareholderAgreement, map[string]interface{}{
		"company_id": "c1", "document_id": "", "status": "4", "unrelated": "dropped",
		"beneficiaries": []interface{}{map[string]interface{}{"beneficiary_id": 0, "beneficiary_type": "2"}},
	})
	require.NoError(t, err)

	rec := roundTrip(t, out)
	assert.Equal(t, float64(4), rec["status"])
	assert.Equal(t, testStamp, rec["created_at"])
	assert.NotContains(t, rec, "unrelated")

	beneficiary := rec["beneficiaries"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "", beneficiary["beneficiary_id"])
	assert.Equal(t, float64(2), beneficiary["beneficiary_type"])

	transfer := rec["transfer"].(map[string]interface{})
	assert.Equal(t, false, transfer["transfer_restriction"])
	assert.Equal(t, "", transfer["transfer_restriction_start"])

	trading := rec["trading"].(map[string]interface{})
	assert.Equal(t, []interface{}{}, trading["ats"])
	restrictions := trading["trading_restrictions"].(map[string]interface{})
	assert.Equal(t, []interface{}{}, restrictions["sale_to_jurisdictions"])

	exits := rec["exits"].(map[string]interface{})
	assert.Equal(t, []interface{}{}, exits["M&A"].(map[string]interface{})["references"])

	for _, group := range []string{"notifications", "reports", "disclosures"} {
		assert.Equal(t, []interface{}{}, rec[group], group)
	}
	for _, group := range []string{"voting", "rights", "financial_participation"} {
		assert.IsType(t, map[string]interface{}{}, rec[group], group)
	}
}

func TestShareholderAgreementIgnoresMisshapenGroups(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PostShareholderAgreement, map[string]interface{}{
		"company_id": "c1", "document_id": "d1", "status": 1,
		"reports": "not a list",
		"voting":  map[string]interface{}{"exists": "yes", "voting_basis": map[string]interface{}{"voting_basis_name": "majority"}},
	})
	require.NoError(t, err)

	rec := roundTrip(t, out)
	assert.Equal(t, []interface{}{}, rec["reports"])
	voting := rec["voting"].(map[string]interface{})
	assert.Equal(t, true, voting["exists"])
	assert.Equal(t, "majority", voting["voting_basis"].(map[string]interface{})["voting_basis_name"])
}

func TestHoldingTransactions(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PutTransferSecuritiesRequest, map[string]interface{}{
		"transfer_request_id": "tr1", "status": 1,
		"reason": map[string]interface{}{"reason_code": "", "reason_text": ""},
	})
	require.NoError(t, err)
	rec := roundTrip(t, out)
	assert.Equal(t, float64(1), rec["status"])
	assert.Equal(t, "tx-1", rec["transaction_id"])

	_, err = prepare(t, c, PutTransferSecuritiesRequest, map[string]interface{}{
		"transfer_request_id": "tr1", "status": 3,
		"reason": map[string]interface{}{"reason_code": "", "reason_text": ""},
	})
	require.Error(t, err)
	assert.Equal(t, `"status" must be less than or equal to 2`, svcerrors.GetServiceError(err).Message)
}

func TestUpdateHoldingSchema(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PutHolding, map[string]interface{}{
		"securities_holder_id": "h1", "koresecurities_id": "k1", "reason_code": "adj",
		"number_of_shares": "12", "last_updated_at": "2024-04-04",
	})
	require.NoError(t, err)
	rec := roundTrip(t, out)
	assert.Equal(t, float64(12), rec["number_of_shares"])
	assert.Equal(t, "2024-04-04T00:00:00.000Z", rec["last_updated_at"])

	_, err = prepare(t, c, PutHolding, map[string]interface{}{
		"securities_holder_id": "h1", "koresecurities_id": "k1", "reason_code": "adj",
		"number_of_shares": 1, "last_updated_at": "2024-04-04", "ats_id": "a1",
	})
	require.Error(t, err)
}

func TestAvailableSharesQueryNormalizes(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, GetShareholderHasAvailableShares, map[string]interface{}{
		"requestor_id": "r1", "securities_holder_id": "h1", "koresecurities_id": "k1", "number_of_shares": "7.5",
	})
	require.NoError(t, err)
	rec := roundTrip(t, out)
	assert.Equal(t, 7.5, rec["number_of_shares"])
	assert.NotContains(t, rec, "created_at")
}

func TestTradeRequestEmptyLimits(t *testing.T) {
	c := newTestCatalog(t)

	out, err := prepare(t, c, PostTradeRequest, map[string]interface{}{
		"shareholder_id": "sh1", "order_date": "2024-02-03", "direction": "sell",
		"company_id": "c1", "koresecurities_id": "k1", "number_to_trade": 1, "trade_price": 0,
		"order_type": "market", "stop": "", "limit": "", "order_duration": "", "order_expiry": "2024-03-01", "misc": "",
	})
	require.NoError(t, err)

	rec := roundTrip(t, out)
	assert.Equal(t, float64(0), rec["stop"])
	assert.Equal(t, float64(0), rec["limit"])
	assert.Equal(t, "2024-03-01T00:00:00.000Z", rec["order_expiry"])
}
