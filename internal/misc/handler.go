package misc

import (
	"net/http"

	"github.com/2beens/fitfood/internal/telemetry/tracing"
	"github.com/2beens/fitfood/pkg"

	"github.com/gorilla/mux"
)

type Handler struct {
	tipsManager  *TipsManager
	plansCatalog *PlansCatalog
	versionInfo  string
}

func NewHandler(tipsManager *TipsManager, plansCatalog *PlansCatalog, versionInfo string) *Handler {
	return &Handler{
		tipsManager:  tipsManager,
		plansCatalog: plansCatalog,
		versionInfo:  versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/api/insights", handler.handleGetInsights).Methods("GET").Name("insights")
	mainRouter.HandleFunc("/api/tips/random", handler.handleGetRandomTip).Methods("GET").Name("tip")
	mainRouter.HandleFunc("/api/workout-plans", handler.handleGetWorkoutPlans).Methods("GET").Name("workout-plans")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleGetInsights(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.insights")
	defer span.End()

	pkg.WriteJSON(w, healthInsights, http.StatusOK)
}

func (handler *Handler) handleGetRandomTip(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.tip")
	defer span.End()

	pkg.WriteJSON(w, handler.tipsManager.RandomTip(), http.StatusOK)
}

func (handler *Handler) handleGetWorkoutPlans(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.workoutPlans")
	defer span.End()

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, handler.plansCatalog.encoded)
}
