package models

import "github.com/shopspring/decimal"

func init() {
	// Prices go over the wire as JSON numbers, like the site always sent them.
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every model migrated at startup.
func All() []interface{} {
	return []interface{}{
		&Client{},
		&Service{},
		&Appointment{},
		&PromotionalKit{},
		&DebtPayment{},
		&AppointmentHistory{},
		&User{},
		&NotificationTemplate{},
		&NotificationLog{},
	}
}
