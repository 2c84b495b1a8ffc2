package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/cognitrack/internal/cognitive"
	"github.com/mind-engage/cognitrack/internal/directory"
	"github.com/mind-engage/cognitrack/internal/metrics"
	"github.com/mind-engage/cognitrack/internal/results"
)

type Deps struct {
	Results   *results.Service
	Directory directory.Store
	Metrics   *metrics.Recorder
	Logger    *slog.Logger

	// Readings feeds the heatmap; nil serves the demo classroom.
	Readings func() []cognitive.Reading
	// Devices feeds the device hub; nil serves the demo devices.
	Devices  func() []cognitive.Device

	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter mounts the API under /api plus the operational endpoints.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}
	if d.Readings == nil {
		d.Readings = cognitive.DemoClassroom
	}
	if d.Devices == nil {
		d.Devices = func() []cognitive.Device { return cognitive.DemoDevices(time.Now()) }
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(d.Logger), middleware.Recoverer)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(ar chi.Router) {
		ar.Post("/assessment-results", SubmitResultHandler(d.Results))
		ar.Get("/assessment-results/{assessmentID}/{studentID}", GetResultHandler(d.Results))
		ar.Get("/assessment-results/{assessmentID}/{studentID}/review", ReviewResultHandler(d.Results))

		ar.Get("/students", ListStudentsHandler(d.Directory))
		ar.Post("/students", CreateStudentHandler(d.Directory))
		ar.Post("/students/bulk", BulkCreateStudentsHandler(d.Directory))
		ar.Get("/students/{studentID}", GetStudentHandler(d.Directory))
		ar.Get("/students/{studentID}/results", ListStudentResultsHandler(d.Results))

		ar.Get("/classrooms", ListClassroomsHandler(d.Directory))
		ar.Post("/classrooms", CreateClassroomHandler(d.Directory))
		ar.Get("/classrooms/{classroomID}", GetClassroomHandler(d.Directory))

		ar.Get("/assessments", ListAssessmentsHandler(d.Directory))
		ar.Post("/assessments", CreateAssessmentHandler(d.Directory))
		ar.Get("/assessments/{assessmentID}", GetAssessmentHandler(d.Directory))

		ar.Post("/users", CreateUserHandler(d.Directory))
		ar.Get("/users/{userID}", GetUserHandler(d.Directory))

		ar.Get("/cognitive/heatmap", HeatmapHandler(d.Readings))
		ar.Get("/devices", DevicesHandler(d.Devices))
	})

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.Results.Store().Ping(ctx); err != nil {
			writeMessage(w, http.StatusServiceUnavailable, "result store unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}
