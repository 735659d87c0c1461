package operations

// Key names a catalog operation. Its string value is the API selector
// callers put in the envelope.
type Key string

// Company
const (
	PostCompany                            Key = "postCompany"
	GetCompaniesByRequestorID              Key = "getCompaniesByRequestorID"
	GetCompanyByID                         Key = "getCompanyByID"
	PutCompany                             Key = "putCompany"
	PutCompanyBankruptcyProceedingStatus   Key = "putCompanyBankruptcyProceedingStatus"
	PutCompanyRegulatoryInjunctionStatus   Key = "putCompanyRegulatoryInjunctionStatus"
	PutCompanyHoldByATSOperatorStatus      Key = "putCompanyHoldByATSOperatorStatus"
	PutAssociateNotificationURLWithCompany Key = "putAssociateNotificationURLWithCompany"
	GetManagementPeopleByCompany           Key = "getManagementPeopleByCompany"
	PostManagementToCompany                Key = "postManagementToCompany"
	DeleteManagementFromCompany            Key = "deleteManagementFromCompany"
)

// Service provider
const (
	PostServiceProvider                    Key = "postServiceProvider"
	GetServiceProviderByID                 Key = "getServiceProviderByID"
	PutAssociateServiceProviderWithCompany Key = "putAssociateServiceProviderWithCompany"
)

// Person
const (
	PostPerson    Key = "postPerson"
	GetPersonByID Key = "getPersonByID"
)

// Industry
const (
	PostIndustry  Key = "postIndustry"
	GetIndustries Key = "getIndustries"
)

// Transfer agent, broker-dealer and ATS operator
const (
	PostTransferAgent                    Key = "postTransferAgent"
	GetTransferAgentByID                 Key = "getTransferAgentByID"
	PutAssociateTransferAgentWithCompany Key = "putAssociateTransferAgentWithCompany"
	PostBrokerDealer                     Key = "postBrokerDealer"
	GetBrokerDealerByID                  Key = "getBrokerDealerByID"
	PutAssociateBrokerDealerWithCompany  Key = "putAssociateBrokerDealerWithCompany"
	PutAssociateBrokerDealerWithSecurity Key = "putAssociateBrokerDealerWithSecurity"
	PostATSOperator                      Key = "postATSOperator"
	GetATSOperatorByID                   Key = "getATSOperatorByID"
	PutAssociateATSOperatorWithCompany   Key = "putAssociateATSOperatorWithCompany"
	PutAssociateAtsOperatorWithSecurity  Key = "putAssociateAtsOperatorWithSecurity"
)

// KoreContract
const (
	PostRegisterKoreContract  Key = "postRegisterKoreContract"
	PostExecuteKoreContract   Key = "postExecuteKoreContract"
	PostTestKoreContract      Key = "postTestKoreContract"
	PostDocument              Key = "postDocument"
	PostOfferingMemorandum    Key = "postOfferingMemorandum"
	PostShareholderAgreement  Key = "postShareholderAgreement"
	PostSubscriptionAgreement Key = "postSubscriptionAgreement"
	PostPaymentMethod         Key = "postPaymentMethod"
	PostSecuritiesInstrument  Key = "postSecuritiesInstrument"
)

// KoreSecurities
const (
	PostIssueSecurities              Key = "postIssueSecurities"
	GetSecuritiesByCompanyID         Key = "getSecuritiesByCompanyID"
	GetSecuritiesByID                Key = "getSecuritiesByID"
	PutSecurities                    Key = "putSecurities"
	PostCertificateText              Key = "postCertificateText"
	GetCertificateTextBySecuritiesID Key = "getCertificateTextBySecuritiesID"
	PostCertificate                  Key = "postCertificate"
	PutCertificate                   Key = "putCertificate"
	PostSecuritiesExchangePrice      Key = "postSecuritiesExchangePrice"
)

// Holdings
const (
	PostPurchaseKoreSecurities            Key = "postPurchaseKoreSecurities"
	PostTransferSecuritiesRequest         Key = "postTransferSecuritiesRequest"
	PutTransferSecuritiesRequest          Key = "putTransferSecuritiesRequest"
	PostPlaceHoldOnShares                 Key = "postPlaceHoldOnShares"
	PostReleaseHoldOnShares               Key = "postReleaseHoldOnShares"
	PutHolding                            Key = "putHolding"
	GetShareHoldersByComapny              Key = "getShareHoldersByComapny"
	GetShareHoldersBySecuritiesID         Key = "getShareHoldersBySecuritiesID"
	GetTotalNumberOfSharesInHolding       Key = "getTotalNumberOfSharesInHolding"
	GetHoldingsbySecuritiesID             Key = "getHoldingsbySecuritiesID"
	GetHoldingsIDBySecuritiesID           Key = "getHoldingsIDBySecuritiesID"
	GetTradableHoldings                   Key = "getTradableHoldings"
	GetShareholderSecuritiesHoldingExists Key = "getShareholderSecuritiesHoldingExists"
	GetShareholderHasAvailableShares      Key = "getShareholderHasAvailableShares"
)

// Trade
const (
	PostTradeRequest Key = "postTradeRequest"
	GetTradeRequests Key = "getTradeRequests"
	PostATSTrade     Key = "postATSTrade"
)

// Keys lists every operation key. Each must have exactly one descriptor.
func Keys() []Key {
	return []Key{
		PostCompany, GetCompaniesByRequestorID, GetCompanyByID, PutCompany,
		PutCompanyBankruptcyProceedingStatus, PutCompanyRegulatoryInjunctionStatus, PutCompanyHoldByATSOperatorStatus,
		PutAssociateNotificationURLWithCompany, GetManagementPeopleByCompany, PostManagementToCompany, DeleteManagementFromCompany,

		PostServiceProvider, GetServiceProviderByID, PutAssociateServiceProviderWithCompany,

		PostPerson, GetPersonByID,

		PostIndustry, GetIndustries,

		PostTransferAgent, GetTransferAgentByID, PutAssociateTransferAgentWithCompany,
		PostBrokerDealer, GetBrokerDealerByID, PutAssociateBrokerDealerWithCompany, PutAssociateBrokerDealerWithSecurity,
		PostATSOperator, GetATSOperatorByID, PutAssociateATSOperatorWithCompany, PutAssociateAtsOperatorWithSecurity,

		PostRegisterKoreContract, PostExecuteKoreContract, PostTestKoreContract, PostDocument, PostOfferingMemorandum,
		PostShareholderAgreement, PostSubscriptionAgreement, PostPaymentMethod, PostSecuritiesInstrument,

		PostIssueSecurities, GetSecuritiesByCompanyID, GetSecuritiesByID, PutSecurities, PostCertificateText,
		GetCertificateTextBySecuritiesID, PostCertificate, PutCertificate, PostSecuritiesExchangePrice,

		PostPurchaseKoreSecurities, PostTransferSecuritiesRequest, PutTransferSecuritiesRequest, PostPlaceHoldOnShares,
		PostReleaseHoldOnShares, PutHolding, GetShareHoldersByComapny, GetShareHoldersBySecuritiesID,
		GetTotalNumberOfSharesInHolding, GetHoldingsbySecuritiesID, GetHoldingsIDBySecuritiesID, GetTradableHoldings,
		GetShareholderSecuritiesHoldingExists, GetShareholderHasAvailableShares,

		PostTradeRequest, GetTradeRequests, PostATSTrade,
	}
}
