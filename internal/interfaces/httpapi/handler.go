package httpapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/frogcrew/internal/platform/logging"
	"github.com/riskibarqy/frogcrew/internal/usecase"
)

// Services groups the use cases the handler serves.
type Services struct {
	Crew         *usecase.CrewService
	Games        *usecase.GameService
	Schedules    *usecase.ScheduleService
	Assignments  *usecase.AssignmentService
	Availability *usecase.AvailabilityService
	Invitations  *usecase.InvitationService
}

type Handler struct {
	crewService         *usecase.CrewService
	gameService         *usecase.GameService
	scheduleService     *usecase.ScheduleService
	assignmentService   *usecase.AssignmentService
	availabilityService *usecase.AvailabilityService
	invitationService   *usecase.InvitationService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		crewService:         services.Crew,
		gameService:         services.Games,
		scheduleService:     services.Schedules,
		assignmentService:   services.Assignments,
		availabilityService: services.Availability,
		invitationService:   services.Invitations,
		logger:              logger,
		validator:           newValidator(),
	}
}
