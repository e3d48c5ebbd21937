package entities

// Entity is a minimal marker interface used as a generic constraint
// and for embedding in domain structs across the codebase.
// It carries no behavior on purpose; add common methods here only
// when every domain type needs them.
type Entity interface{}
