package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles every repository implementation.
type Repositories struct {
	User             UserRepository
	Profile          ProfileRepository
	Client           ClientRepository
	Invoice          InvoiceRepository
	ReminderRule     ReminderRuleRepository
	Reminder         ReminderRepository
	ReminderTemplate ReminderTemplateRepository
}

// NewRepositories wires all repositories to one GORM handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:             NewUserRepository(db),
		Profile:          NewProfileRepository(db),
		Client:           NewClientRepository(db),
		Invoice:          NewInvoiceRepository(db),
		ReminderRule:     NewReminderRuleRepository(db),
		Reminder:         NewReminderRepository(db),
		ReminderTemplate: NewReminderTemplateRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetProfileRepository returns the profile repository instance
func (f *Factory) GetProfileRepository() ProfileRepository {
	return f.GetRepositories().Profile
}

// GetClientRepository returns the client repository instance
func (f *Factory) GetClientRepository() ClientRepository {
	return f.GetRepositories().Client
}

// GetInvoiceRepository returns the invoice repository instance
func (f *Factory) GetInvoiceRepository() InvoiceRepository {
	return f.GetRepositories().Invoice
}

// GetReminderRuleRepository returns the reminder rule repository instance
func (f *Factory) GetReminderRuleRepository() ReminderRuleRepository {
	return f.GetRepositories().ReminderRule
}

// GetReminderRepository returns the reminder ledger repository instance
func (f *Factory) GetReminderRepository() ReminderRepository {
	return f.GetRepositories().Reminder
}

// GetReminderTemplateRepository returns the template override repository instance
func (f *Factory) GetReminderTemplateRepository() ReminderTemplateRepository {
	return f.GetRepositories().ReminderTemplate
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory
func GetGlobalFactory() *Factory {
	return globalFactory
}
