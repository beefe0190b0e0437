package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Stock         StockRepository
	Withdrawals   WithdrawalRepository
	StatusChanges StatusChangeRepository
	Notifications NotificationRepository
}
