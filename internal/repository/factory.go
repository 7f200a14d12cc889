package repository

import "github.com/dallinbsmith/prescription-db-sub001/internal/database"

// Factory builds repositories over an arbitrary querier, so a service can
// bind the same repository code to the pool for plain reads and to an open
// transaction inside a unit of work.
type Factory interface {
	Users(db database.Querier) UserRepository
	Drugs(db database.Querier) DrugRepository
	Registry(db database.Querier) RegistryRepository
	Discussions(db database.Querier) DiscussionRepository
}
