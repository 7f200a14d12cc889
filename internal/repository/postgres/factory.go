package postgres

import (
	"github.com/dallinbsmith/prescription-db-sub001/internal/database"
	"github.com/dallinbsmith/prescription-db-sub001/internal/repository"
)

// Factory implements repository.Factory for the postgres store.
type Factory struct{}

func NewFactory() Factory {
	return Factory{}
}

func (Factory) Users(db database.Querier) repository.UserRepository {
	return NewUserRepo(db)
}

func (Factory) Drugs(db database.Querier) repository.DrugRepository {
	return NewDrugRepo(db)
}

func (Factory) Registry(db database.Querier) repository.RegistryRepository {
	return NewRegistryRepo(db)
}

func (Factory) Discussions(db database.Querier) repository.DiscussionRepository {
	return NewDiscussionRepo(db)
}
