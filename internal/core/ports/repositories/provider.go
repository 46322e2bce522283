package repositories

// RepositoryProvider holds all repository instances for the application
type RepositoryProvider struct {
	VendorRepo      VendorRepositoryWithTx
	TransactionRepo TransactionRepositoryWithTx
	CheckoutRepo    CheckoutRepositoryFacade
	SettingsRepo    SettingsRepositoryFacade
	UserRepo        UserRepositoryFacade
}
