package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retribusi/backend/internal/domain/billing"
	"github.com/retribusi/backend/internal/domain/shared/valueobject"
)

// CustomerModel is the persistence model for the Customer aggregate root.
type CustomerModel struct {
	AggregateModel
	Name                string                 `gorm:"type:varchar(200);not null;index"`
	Address             string                 `gorm:"type:text"`
	Region              string                 `gorm:"type:varchar(100);index"`
	JoinDate            time.Time              `gorm:"not null"`
	TariffCategoryID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	TariffEffectiveDate time.Time              `gorm:"not null"`
	Status              billing.CustomerStatus `gorm:"type:varchar(10);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *billing.Customer {
	return &billing.Customer{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		Name:                m.Name,
		Address:             m.Address,
		Region:              m.Region,
		JoinDate:            m.JoinDate,
		TariffCategoryID:    m.TariffCategoryID,
		TariffEffectiveDate: m.TariffEffectiveDate,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *billing.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Address = c.Address
	m.Region = c.Region
	m.JoinDate = c.JoinDate
	m.TariffCategoryID = c.TariffCategoryID
	m.TariffEffectiveDate = c.TariffEffectiveDate
	m.Status = c.Status
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *billing.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// TariffCategoryModel is the persistence model for the TariffCategory aggregate root.
type TariffCategoryModel struct {
	AggregateModel
	Name         string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	MonthlyPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (TariffCategoryModel) TableName() string {
	return "tariff_categories"
}

// ToDomain converts the persistence model to a domain TariffCategory entity.
func (m *TariffCategoryModel) ToDomain() *billing.TariffCategory {
	return &billing.TariffCategory{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		MonthlyPrice:      m.MonthlyPrice,
	}
}

// FromDomain populates the persistence model from a domain TariffCategory entity.
func (m *TariffCategoryModel) FromDomain(tc *billing.TariffCategory) {
	m.FromDomainAggregateRoot(tc.BaseAggregateRoot)
	m.Name = tc.Name
	m.MonthlyPrice = tc.MonthlyPrice
}

// TariffCategoryModelFromDomain creates a new persistence model from a domain TariffCategory.
func TariffCategoryModelFromDomain(tc *billing.TariffCategory) *TariffCategoryModel {
	m := &TariffCategoryModel{}
	m.FromDomain(tc)
	return m
}

// TariffOverrideModel is the persistence model for manual tariff overrides.
// The unique index enforces at most one override per (customer, month).
type TariffOverrideModel struct {
	AggregateModel
	CustomerID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_override_customer_month,priority:1"`
	Month      valueobject.Month `gorm:"type:varchar(7);not null;uniqueIndex:idx_override_customer_month,priority:2"`
	Amount     decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Note       string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TariffOverrideModel) TableName() string {
	return "tariff_overrides"
}

// ToDomain converts the persistence model to a domain TariffOverride entity.
func (m *TariffOverrideModel) ToDomain() *billing.TariffOverride {
	return &billing.TariffOverride{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Month:             m.Month,
		Amount:            m.Amount,
		Note:              m.Note,
	}
}

// FromDomain populates the persistence model from a domain TariffOverride entity.
func (m *TariffOverrideModel) FromDomain(o *billing.TariffOverride) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.CustomerID = o.CustomerID
	m.Month = o.Month
	m.Amount = o.Amount
	m.Note = o.Note
}

// TariffOverrideModelFromDomain creates a new persistence model from a domain TariffOverride.
func TariffOverrideModelFromDomain(o *billing.TariffOverride) *TariffOverrideModel {
	m := &TariffOverrideModel{}
	m.FromDomain(o)
	return m
}

// TariffHistoryModel is the persistence model for preserved tariff history.
// The unique index enforces at most one entry per (customer, month); the
// repository relies on it for insert-if-absent semantics.
type TariffHistoryModel struct {
	AggregateModel
	CustomerID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_history_customer_month,priority:1"`
	Month      valueobject.Month `gorm:"type:varchar(7);not null;uniqueIndex:idx_history_customer_month,priority:2"`
	Amount     decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Note       string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TariffHistoryModel) TableName() string {
	return "tariff_histories"
}

// ToDomain converts the persistence model to a domain TariffHistory entity.
func (m *TariffHistoryModel) ToDomain() *billing.TariffHistory {
	return &billing.TariffHistory{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Month:             m.Month,
		Amount:            m.Amount,
		Note:              m.Note,
	}
}

// FromDomain populates the persistence model from a domain TariffHistory entity.
func (m *TariffHistoryModel) FromDomain(h *billing.TariffHistory) {
	m.FromDomainAggregateRoot(h.BaseAggregateRoot)
	m.CustomerID = h.CustomerID
	m.Month = h.Month
	m.Amount = h.Amount
	m.Note = h.Note
}

// TariffHistoryModelFromDomain creates a new persistence model from a domain TariffHistory.
func TariffHistoryModelFromDomain(h *billing.TariffHistory) *TariffHistoryModel {
	m := &TariffHistoryModel{}
	m.FromDomain(h)
	return m
}

// StatusPeriodModel is the persistence model for status timeline periods.
type StatusPeriodModel struct {
	AggregateModel
	CustomerID uuid.UUID              `gorm:"type:uuid;not null;index"`
	Status     billing.CustomerStatus `gorm:"type:varchar(10);not null"`
	Start      time.Time              `gorm:"not null;index"`
	End        *time.Time             `gorm:"index"`
}

// TableName returns the table name for GORM
func (StatusPeriodModel) TableName() string {
	return "status_periods"
}

// ToDomain converts the persistence model to a domain StatusPeriod entity.
func (m *StatusPeriodModel) ToDomain() *billing.StatusPeriod {
	return &billing.StatusPeriod{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Status:            m.Status,
		Start:             m.Start,
		End:               m.End,
	}
}

// FromDomain populates the persistence model from a domain StatusPeriod entity.
func (m *StatusPeriodModel) FromDomain(p *billing.StatusPeriod) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.CustomerID = p.CustomerID
	m.Status = p.Status
	m.Start = p.Start
	m.End = p.End
}

// StatusPeriodModelFromDomain creates a new persistence model from a domain StatusPeriod.
func StatusPeriodModelFromDomain(p *billing.StatusPeriod) *StatusPeriodModel {
	m := &StatusPeriodModel{}
	m.FromDomain(p)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate root.
// Months and Breakdown are stored as JSONB keyed by the canonical
// "YYYY-MM" token; the breakdown snapshot is never rewritten.
type PaymentModel struct {
	AggregateModel
	CustomerID  uuid.UUID              `gorm:"type:uuid;not null;index"`
	Months      valueobject.MonthList  `gorm:"type:jsonb;not null;default:'[]'"`
	PaymentDate time.Time              `gorm:"not null;index"`
	Amount      decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Subtotal    *decimal.Decimal       `gorm:"type:decimal(18,2)"`
	Discount    *decimal.Decimal       `gorm:"type:decimal(18,2)"`
	Method      billing.PaymentMethod  `gorm:"type:varchar(20);not null"`
	Note        string                 `gorm:"type:text"`
	Breakdown   billing.MonthBreakdown `gorm:"type:jsonb;not null;default:'{}'"`
	Deposited   bool                   `gorm:"not null;default:false;index"`
	DepositedAt *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Months:            m.Months,
		PaymentDate:       m.PaymentDate,
		Amount:            m.Amount,
		Subtotal:          m.Subtotal,
		Discount:          m.Discount,
		Method:            m.Method,
		Note:              m.Note,
		Breakdown:         m.Breakdown,
		Deposited:         m.Deposited,
		DepositedAt:       m.DepositedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.CustomerID = p.CustomerID
	m.Months = p.Months
	m.PaymentDate = p.PaymentDate
	m.Amount = p.Amount
	m.Subtotal = p.Subtotal
	m.Discount = p.Discount
	m.Method = p.Method
	m.Note = p.Note
	m.Breakdown = p.Breakdown
	m.Deposited = p.Deposited
	m.DepositedAt = p.DepositedAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// InstallmentModel is the persistence model for the installment ledger.
// The unique index enforces at most one record per (customer, month).
type InstallmentModel struct {
	AggregateModel
	CustomerID uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_installment_customer_month,priority:1"`
	Month      valueobject.Month         `gorm:"type:varchar(7);not null;uniqueIndex:idx_installment_customer_month,priority:2"`
	Owed       decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	Paid       decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	Status     billing.InstallmentStatus `gorm:"type:varchar(10);not null;default:'PENDING';index"`
	PaymentIDs billing.PaymentIDs        `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment entity.
func (m *InstallmentModel) ToDomain() *billing.Installment {
	return &billing.Installment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		Month:             m.Month,
		Owed:              m.Owed,
		Paid:              m.Paid,
		Status:            m.Status,
		PaymentIDs:        m.PaymentIDs,
	}
}

// FromDomain populates the persistence model from a domain Installment entity.
func (m *InstallmentModel) FromDomain(i *billing.Installment) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.CustomerID = i.CustomerID
	m.Month = i.Month
	m.Owed = i.Owed
	m.Paid = i.Paid
	m.Status = i.Status
	m.PaymentIDs = i.PaymentIDs
}

// InstallmentModelFromDomain creates a new persistence model from a domain Installment.
func InstallmentModelFromDomain(i *billing.Installment) *InstallmentModel {
	m := &InstallmentModel{}
	m.FromDomain(i)
	return m
}

// AllModels returns every persistence model for migration registration.
func AllModels() []interface{} {
	return []interface{}{
		&CustomerModel{},
		&TariffCategoryModel{},
		&TariffOverrideModel{},
		&TariffHistoryModel{},
		&StatusPeriodModel{},
		&PaymentModel{},
		&InstallmentModel{},
	}
}
