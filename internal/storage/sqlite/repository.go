package sqlite

import "fraudguard/internal/storage"

var (
	_ storage.UserRepository        = (*SQLiteStorage)(nil)
	_ storage.AccountRepository     = (*SQLiteStorage)(nil)
	_ storage.TransactionRepository = (*SQLiteStorage)(nil)
	_ storage.FraudAlertRepository  = (*SQLiteStorage)(nil)
	_ storage.AnalyticsRepository   = (*SQLiteStorage)(nil)
)
