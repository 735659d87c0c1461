package operations

import (
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

// ShareholderAgreement is the record sent to AddShareHolderAgreement. Every
// group is always present. Scalars decode leniently and absent collections
// encode as [].
type ShareholderAgreement struct {
	CompanyID              normalize.Text         `json:"company_id"`
	DocumentID             normalize.Text         `json:"document_id"`
	Status                 normalize.Count        `json:"status"`
	Beneficiaries          []Beneficiary          `json:"beneficiaries"`
	Transfer               TransferRestriction    `json:"transfer"`
	Trading                Trading                `json:"trading"`
	Voting                 Voting                 `json:"voting"`
	Rights                 Rights                 `json:"rights"`
	FinancialParticipation FinancialParticipation `json:"financial_participation"`
	Notifications          []AgreementNotice      `json:"notifications"`
	Exits                  Exits                  `json:"exits"`
	Reports                []Report               `json:"reports"`
	Disclosures            []Disclosure           `json:"disclosures"`
	CreatedAt              string                 `json:"created_at"`
}

// Reference points at a clause of the agreement document.
type Reference struct {
	ReferenceID     normalize.Text `json:"reference_id"`
	ReferenceName   normalize.Text `json:"reference_name"`
	ReferenceClause normalize.Text `json:"reference_clause"`
}

type Beneficiary struct {
	BeneficiaryID   normalize.Text  `json:"beneficiary_id"`
	BeneficiaryType normalize.Count `json:"beneficiary_type"`
}

type TransferRestriction struct {
	Restriction       normalize.Flag    `json:"transfer_restriction"`
	RestrictionNumber normalize.Count   `json:"transfer_restriction_number"`
	RestrictionUnit   normalize.Count   `json:"transfer_restriction_unit"`
	RestrictionStart  normalize.Instant `json:"transfer_restriction_start"`
}

type Jurisdiction struct {
	Country normalize.Text `json:"country"`
	State   normalize.Text `json:"state"`
}

type ATSVenue struct {
	ATSID         normalize.Text `json:"ats_id"`
	Jurisdictions Jurisdiction   `json:"ats_jurisdictions"`
}

type Trading struct {
	ATS          []ATSVenue          `json:"ats"`
	Restrictions TradingRestrictions `json:"trading_restrictions"`
}

type TradingRestrictions struct {
	HoldPeriod          HoldPeriod        `json:"trading_hold_period"`
	Frequency           TradingFrequency  `json:"trading_frequency"`
	Quantity            TradingQuantity   `json:"trading_quantity"`
	SaleToJurisdictions []SaleRestriction `json:"sale_to_jurisdictions"`
}

type HoldPeriod struct {
	Duration     normalize.Count   `json:"trading_hold_period_duration"`
	DurationUnit normalize.Count   `json:"trading_hold_period_duration_unit"`
	Start        normalize.Instant `json:"trading_hold_period_start"`
	References   []Reference       `json:"references"`
}

type TradingFrequency struct {
	NumberOfTrades normalize.Count `json:"number_of_trades"`
	Every          normalize.Count `json:"trade_frequency_every"`
	Unit           normalize.Count `json:"trade_frequency_unit"`
}

type TradingQuantity struct {
	Basis             normalize.Text  `json:"trading_quantity_basis"`
	MaximumSecurities normalize.Count `json:"maximum_number_of_securities_to_trade"`
}

type SaleRestriction struct {
	RestrictionType normalize.Text `json:"restriction_type"`
	Country         normalize.Text `json:"country"`
	State           normalize.Text `json:"state"`
}

type Voting struct {
	Exists  normalize.Flag `json:"exists"`
	Basis   VotingBasis    `json:"voting_basis"`
	Actions []VotingAction `json:"voting_actions"`
}

type VotingBasis struct {
	Name       normalize.Text `json:"voting_basis_name"`
	References []Reference    `json:"references"`
}

type VotingAction struct {
	CorporateAction normalize.Text `json:"corporate_action"`
	References      []Reference    `json:"references"`
}

// Presence records whether a right or exit route exists.
type Presence struct {
	Exists normalize.Flag `json:"exists"`
}

type Rights struct {
	FirstRefusal    Presence `json:"right_of_first_refusal"`
	TagAlong        Presence `json:"right_of_tag_along"`
	DragAlong       Presence `json:"right_of_drag_along"`
	Preemption      Presence `json:"right_of_preemption"`
	OfferOfWarrants Presence `json:"offer_of_warrants"`
}

type Participation struct {
	Exists      normalize.Flag `json:"exists"`
	Description normalize.Text `json:"description"`
	References  []Reference    `json:"references"`
}

type ReferencedPresence struct {
	Exists     normalize.Flag `json:"exists"`
	References []Reference    `json:"references"`
}

type FinancialParticipation struct {
	RevenueShare Participation      `json:"revenue_share"`
	Dividends    Participation      `json:"dividends"`
	Warrants     ReferencedPresence `json:"warrants"`
	Preferreds   Participation      `json:"preferreds"`
}

type AgreementNotice struct {
	Trigger    normalize.Text `json:"trigger"`
	Title      normalize.Text `json:"notification_title"`
	Mandatory  normalize.Flag `json:"notification_mandatory"`
	References []Reference    `json:"references"`
}

type Exits struct {
	MergersAndAcquisitions ReferencedPresence `json:"M&A"`
	Bankruptcy             ReferencedPresence `json:"bankruptcy"`
	RTO                    ReferencedPresence `json:"RTO"`
	IPO                    ReferencedPresence `json:"IPO"`
}

type Report struct {
	ReportID  normalize.Text   `json:"report_id"`
	Title     normalize.Text   `json:"report_title"`
	Frequency normalize.Text   `json:"report_frequency"`
	Consumers []ReportConsumer `json:"report_consumers"`
}

type ReportConsumer struct {
	ID   normalize.Text `json:"report_consumer_id"`
	Name normalize.Text `json:"report_consumer_name"`
	Type normalize.Text `json:"report_consumer_type"`
}

type Disclosure struct {
	DisclosureID  normalize.Text        `json:"disclosure_id"`
	Title         normalize.Text        `json:"disclosure_title"`
	Frequency     normalize.Count       `json:"disclosure_frequency"`
	FrequencyUnit normalize.Count       `json:"disclosure_frequency_unit"`
	Recipients    []DisclosureRecipient `json:"disclosure_recipients"`
}

type DisclosureRecipient struct {
	ID   normalize.Text `json:"disclosure_recipient_id"`
	Name normalize.Text `json:"disclosure_recipient_name"`
	Type normalize.Text `json:"disclosure_recipient_type"`
}

func shareholderAgreementSchema() *schema.ObjectRule {
	return schema.Object(
		schema.Required("company_id", schema.Alphanum()),
		schema.Required("document_id", schema.Alphanum().AllowEmpty()),
		schema.Required("status", schema.Number()),
	).AllowUnknown()
}

// normalizeShareholderAgreement rebuilds the agreement from the record tree.
// Keys outside the tree are dropped.
func normalizeShareholderAgreement(env normalize.Env, rec normalize.Record) (interface{}, error) {
	var agreement ShareholderAgreement
	if err := normalize.Decode(rec.Map(), &agreement); err != nil {
		return nil, err
	}
	agreement.CreatedAt = env.Timestamp()
	return &agreement, nil
}
