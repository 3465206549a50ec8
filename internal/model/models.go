package model

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Privilege{},
		&Role{},
		&User{},
		&Site{},
		&MachineCategory{},
		&Machine{},
		&TransferRequest{},
		&BuyerDetails{},
		&ScrapDetails{},
		&TransportDetails{},
		&ConsumptionLog{},
		&TransferEvent{},
	}
}
