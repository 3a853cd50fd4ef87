package seed

import "github.com/dayanaadylkhanova/intro-pow/internal/entity"

//go:generate mockgen -source=interfaces.go -destination=./seed_mock.go -package=seed

// Partitions is the replay store side of the seed lifecycle.
type Partitions interface {
	OpenSeed(id entity.SeedID)
	DropSeed(id entity.SeedID)
}
