package services

// ServiceContainer holds all service instances for the application
type ServiceContainer struct {
	Vendor      VendorSvcFacade
	Transaction TransactionSvcFacade
	Fulfillment FulfillmentSvcFacade
	Settings    SettingsSvcFacade
	Rates       RateSource
}
