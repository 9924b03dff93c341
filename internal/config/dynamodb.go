package config

type DynamoDBConfig struct {
	InUse             bool
	Region            string
	InvoiceTableName  string
	ClientTableName   string
	PaymentTableName  string
	SettingsTableName string
	SequenceTableName string
}
