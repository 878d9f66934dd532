package app

import (
	"database/sql"

	"timeclock/internal/auth"
	"timeclock/internal/device"
	"timeclock/internal/group"
	"timeclock/internal/leave"
	"timeclock/internal/messaging/kafka"
	"timeclock/internal/notify"
	"timeclock/internal/overview"
	"timeclock/internal/shared/keylock"
	"timeclock/internal/stamp"
	"timeclock/internal/user"
	"timeclock/internal/workrule"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry holds every wired handler. Construction order follows the
// dependency direction: repositories, then services, then handlers.
type Registry struct {
	Auth     *auth.Handler
	User     *user.Handler
	Group    *group.Handler
	WorkRule *workrule.Handler
	Stamp    *stamp.Handler
	Leave    *leave.Handler
	Device   *device.Handler
	Overview *overview.Handler
}

func NewRegistry(gormDB *gorm.DB, sqlDB *sql.DB, rdb *redis.Client, notifier notify.Notifier, logger *zap.Logger) *Registry {
	if notifier == nil {
		notifier = notify.Nop{}
	}

	userRepo := user.NewRepository(gormDB)
	groupRepo := group.NewRepository(gormDB)
	ruleRepo := workrule.NewRepository(gormDB)
	stampRepo := stamp.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	deviceRepo := device.NewRepository(gormDB)
	overviewRepo := overview.NewRepository(gormDB)

	locks := keylock.New()

	authService := auth.NewService(userRepo, logger)
	userService := user.NewService(sqlDB, userRepo, ruleRepo, logger)
	groupService := group.NewService(sqlDB, groupRepo, logger)
	ruleService := workrule.NewService(sqlDB, ruleRepo, userRepo, logger)
	stampService := stamp.NewService(sqlDB, stampRepo, ruleRepo, userRepo, notifier, locks, logger)
	leaveService := leave.NewService(sqlDB, leaveRepo, notifier, locks, logger)
	deviceService := device.NewService(deviceRepo, userRepo, stampService, notifier, logger)
	overviewService := overview.NewService(overviewRepo, rdb, logger)

	return &Registry{
		Auth:     auth.NewHandler(authService, logger),
		User:     user.NewHandler(userService, logger),
		Group:    group.NewHandler(groupService, logger),
		WorkRule: workrule.NewHandler(ruleService, logger),
		Stamp:    stamp.NewHandlerWithRedis(stampService, rdb, logger),
		Leave:    leave.NewHandler(leaveService, logger),
		Device:   device.NewHandler(deviceService, logger),
		Overview: overview.NewHandler(overviewService, logger),
	}
}

// NewOutboxNotifier wires the transactional outbox as the fanout transport.
func NewOutboxNotifier(sqlDB *sql.DB) notify.Notifier {
	return kafka.NewOutboxNotifier(kafka.NewOutboxRepository(sqlDB))
}
