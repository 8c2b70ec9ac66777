package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/office-admin/internal/config"
	"github.com/nurpe/office-admin/internal/fakeapi"
	"github.com/nurpe/office-admin/internal/logger"
	"github.com/nurpe/office-admin/internal/model"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	server := fakeapi.New(log)
	server.Seed(sampleData())

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.FakeAPI.Port)
	log.Info().Str("addr", addr).Msg("starting fake api")

	if err := server.Run(addr); err != nil {
		log.Error().Err(err).Msg("fake api stopped")
		os.Exit(1)
	}
}

func sampleData() fakeapi.Seed {
	return fakeapi.Seed{
		Contractors: []model.Contractor{
			{NIP: "5260250274", REGON: "012345678", Name: "Przykładowa Sp. z o.o.", VATPayer: true, Street: "Marszałkowska", HouseNumber: "10", ApartmentNumber: "4"},
			{NIP: "7791011327", REGON: "630303038", Name: "Hurtownia Lech", Street: "Głogowska", HouseNumber: "120"},
		},
		Employees: []model.Employee{
			{FirstName: "Jan", LastName: "Kowalski", Position: "Księgowy", HireDate: model.NewDate(2019, time.March, 1), VacationDays: 26},
			{FirstName: "Anna", LastName: "Nowak", Position: "Kierownik", HireDate: model.NewDate(2015, time.September, 15), VacationDays: 20},
			{FirstName: "Piotr", LastName: "Wiśniewski", Position: "Handlowiec", HireDate: model.NewDate(2022, time.January, 10), VacationDays: 13},
		},
		Invoices: []model.Invoice{
			{Description: "Usługi księgowe", MPK: "ADM-01", Amount: decimal.NewFromInt(1500), Quantity: 1, VATRate: decimal.NewFromInt(23)},
			{Description: "Materiały biurowe", MPK: "ADM-02", Amount: decimal.RequireFromString("49.99"), Quantity: 12, VATRate: decimal.NewFromInt(23)},
			{Description: "Książki", MPK: "HR-01", Amount: decimal.RequireFromString("89.00"), Quantity: 3, VATRate: decimal.NewFromInt(5)},
		},
		Delegations: []model.Delegation{
			{FullName: "Jan Kowalski", DateFrom: model.NewDate(2024, time.April, 8), DateTo: model.NewDate(2024, time.April, 10), DepartureLocation: "Warszawa", ArrivalLocation: "Gdańsk"},
			{FullName: "Anna Nowak", DateFrom: model.NewDate(2024, time.May, 20), DateTo: model.NewDate(2024, time.May, 21), DepartureLocation: "Poznań", ArrivalLocation: "Kraków"},
		},
	}
}
