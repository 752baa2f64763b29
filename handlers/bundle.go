package handlers

import (
	"github.com/go-redis/redis/v8"

	matchRepo "medshift/database/repository/match"
	pushTargetRepo "medshift/database/repository/pushtarget"
	"medshift/services/lifecycle"
	"medshift/services/shift"
	"medshift/services/storage"
	"medshift/services/timetracking"
)

// HandlerBundle groups the endpoint handlers' dependencies into one struct.
type HandlerBundle struct {
	PublicationSvc shift.PublicationService
	LifecycleSvc   lifecycle.LifecycleService
	RecorderSvc    timetracking.RecorderService
	StorageSvc     storage.StorageService

	MatchRepo      matchRepo.MatchRepository
	PushTargetRepo pushTargetRepo.PushTargetRepository
	CacheClient    *redis.Client
}
