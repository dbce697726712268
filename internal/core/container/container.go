package container

import (
	"database/sql"

	"github.com/cjsachs/Management-Inventory-System/internal/assignment"
	"github.com/cjsachs/Management-Inventory-System/internal/auditlog"
	"github.com/cjsachs/Management-Inventory-System/internal/equipment"
	"github.com/cjsachs/Management-Inventory-System/internal/inventory"
	"github.com/cjsachs/Management-Inventory-System/internal/realtime"
	"github.com/cjsachs/Management-Inventory-System/internal/repository"
	"github.com/cjsachs/Management-Inventory-System/internal/staff"
	"github.com/cjsachs/Management-Inventory-System/internal/store"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"
	"github.com/cjsachs/Management-Inventory-System/pkg/security"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

type Container struct {
	Repository        *repository.Repository
	Notifier          *store.Notifier
	Coordinator       *inventory.Coordinator
	Hub               *realtime.Hub
	LoginHandler      *security.LoginHandler
	InventoryHandler  *inventory.Handler
	EquipmentHandler  *equipment.Handler
	AssignmentHandler *assignment.Handler
	AuditHandler      *auditlog.Handler
	RealtimeHandler   *realtime.Handler
	StaffHandler      *staff.StaffHandler
	StopActivityFeed  func()
}

func NewAppContainer(db *sql.DB, logger *zap.Logger) *Container {
	repo := repository.NewRepository(db)
	notifier := store.NewNotifier(logger)

	equipmentRepo := equipment.NewRepository(repo, notifier)
	assignmentRepo := assignment.NewRepository(repo, notifier)
	logRepo := auditlog.NewRepository(repo, notifier)
	staffRepo := staff.NewRepository(repo)

	recorder := auditlog.NewRecorder(logRepo, logger)

	inTx := func(fn func(tx *goqu.TxDatabase) error) error {
		return repository.WithTransaction(repo.GoquDBWrapper, fn)
	}
	coordinator := inventory.NewCoordinator(equipmentRepo, assignmentRepo, recorder, inTx, logger)

	hub := realtime.NewHub(logger)
	coordinator.OnSnapshot(func(s inventory.Snapshot) {
		hub.Broadcast("equipment_snapshot", s.Equipment)
		hub.Broadcast("assignment_snapshot", s.Assignments)
		hub.Broadcast("stats", s.Stats)
	})
	stopActivityFeed := logRepo.Subscribe(func(entries []models.ActivityLog) {
		hub.Broadcast("activity_snapshot", entries)
	}, 0)

	loginHandler := security.NewLoginHandler(repo, func(staffID int) {
		if err := staffRepo.StampLastLogin(staffID); err != nil {
			logger.Warn("failed to stamp last login", zap.Int("staffID", staffID), zap.Error(err))
		}
	})

	return &Container{
		Repository:        repo,
		Notifier:          notifier,
		Coordinator:       coordinator,
		Hub:               hub,
		LoginHandler:      loginHandler,
		InventoryHandler:  inventory.NewHandler(coordinator),
		EquipmentHandler:  equipment.NewHandler(equipmentRepo),
		AssignmentHandler: assignment.NewHandler(assignmentRepo),
		AuditHandler:      auditlog.NewHandler(logRepo, recorder),
		RealtimeHandler:   realtime.NewHandler(hub, logger),
		StaffHandler:      staff.NewHandler(staffRepo),
		StopActivityFeed:  stopActivityFeed,
	}
}
