package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/handlers"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

// RegisterRoutes amarra todas as rotas HTTP.
func RegisterRoutes(e *echo.Echo, db *gorm.DB, log *zap.Logger, jwtSecret string) {
	// ===== Handlers =====
	auth := handlers.NewAuthHandler(db, log, jwtSecret)
	usr := handlers.NewUserHandler(db, log)
	und := handlers.NewUnidadeHandler(db)
	crs := handlers.NewCursoHandler(db)
	alu := handlers.NewAlunoHandler(db, log)
	trm := handlers.NewTurmaHandler(db, log)
	cha := handlers.NewChamadaHandler(db, log)
	des := handlers.NewDesistenteHandler(db, log)
	rep := handlers.NewReportHandler(db, log)
	dash := handlers.NewDashboardHandler(db, log)
	notif := handlers.NewNotificationHandler(db, log)
	sys := handlers.NewSystemHandler(db, log)
	up := handlers.NewUploadHandler(db, log)

	// ===== Público =====
	e.GET("/health", sys.Health)
	e.POST("/init", sys.Init)
	e.POST("/auth/login", auth.Login)
	e.POST("/auth/first-access", auth.FirstAccess)
	e.POST("/auth/reset-password-request", auth.ResetPasswordRequest)

	// ===== Autenticado =====
	api := e.Group("", middlewares.RequireAuth(db, jwtSecret))

	api.GET("/auth/me", auth.Me)
	api.POST("/auth/change-password", auth.ChangePassword)

	// usuários — gestão é do admin; listagem também para quem coordena
	api.POST("/users", usr.Create, middlewares.RequireRole(models.TipoAdmin))
	api.GET("/users", usr.List, middlewares.RequireRole(models.TipoAdmin, models.TipoInstrutor, models.TipoPedagogo))
	api.GET("/users/pending", usr.Pending, middlewares.RequireRole(models.TipoAdmin))
	api.GET("/users/:id/details", usr.Details, middlewares.RequireRole(models.TipoAdmin))
	api.PUT("/users/:id", usr.Update, middlewares.RequireRole(models.TipoAdmin))
	api.PUT("/users/:id/approve", usr.Approve, middlewares.RequireRole(models.TipoAdmin))
	api.POST("/users/:id/reset-password", usr.ResetPassword, middlewares.RequireRole(models.TipoAdmin))
	api.DELETE("/users/:id", usr.Delete, middlewares.RequireRole(models.TipoAdmin))

	// unidades e cursos — escrita só admin, leitura para todos autenticados
	api.POST("/units", und.Create, middlewares.RequireRole(models.TipoAdmin))
	api.GET("/units", und.List)
	api.PUT("/units/:id", und.Update, middlewares.RequireRole(models.TipoAdmin))
	api.DELETE("/units/:id", und.Delete, middlewares.RequireRole(models.TipoAdmin))

	api.POST("/courses", crs.Create, middlewares.RequireRole(models.TipoAdmin))
	api.GET("/courses", crs.List)
	api.PUT("/courses/:id", crs.Update, middlewares.RequireRole(models.TipoAdmin))
	api.DELETE("/courses/:id", crs.Delete, middlewares.RequireRole(models.TipoAdmin))

	// alunos — o recorte fino (monitor só lê, instrutor só via roster) fica no
	// handler e no pacote scope
	api.POST("/students", alu.Create)
	api.GET("/students", alu.List)
	api.PUT("/students/:id", alu.Update, middlewares.RequireRole(models.TipoAdmin))
	api.DELETE("/students/:id", alu.Delete, middlewares.RequireRole(models.TipoAdmin))
	api.POST("/students/import-csv", alu.ImportCSV)
	api.POST("/students/cleanup-orphans", alu.CleanupOrphans, middlewares.RequireRole(models.TipoAdmin))

	// turmas
	api.POST("/classes", trm.Create, middlewares.RequireRole(models.TipoAdmin, models.TipoInstrutor))
	api.GET("/classes", trm.List)
	api.PUT("/classes/:id", trm.Update, middlewares.RequireRole(models.TipoAdmin, models.TipoInstrutor))
	api.DELETE("/classes/:id", trm.Delete, middlewares.RequireRole(models.TipoAdmin))
	api.GET("/classes/:id/students", trm.Students)
	api.PUT("/classes/:id/students/:aluno_id", trm.AddAluno, middlewares.RequireRole(models.TipoAdmin, models.TipoInstrutor, models.TipoPedagogo))
	api.DELETE("/classes/:id/students/:aluno_id", trm.RemoveAluno, middlewares.RequireRole(models.TipoAdmin))

	// chamadas
	api.POST("/attendance", cha.Create, middlewares.RequireRole(models.TipoAdmin, models.TipoInstrutor, models.TipoPedagogo, models.TipoMonitor))
	api.GET("/attendance/class/:turma_id", cha.ListByTurma)

	// desistências
	api.POST("/dropouts", des.Create, middlewares.RequireRole(models.TipoAdmin, models.TipoInstrutor, models.TipoPedagogo))
	api.GET("/dropouts", des.List)

	// relatórios e painel
	api.GET("/reports/attendance", rep.Attendance)
	api.GET("/reports/teacher-stats", rep.TeacherStats, middlewares.RequireRole(models.TipoAdmin, models.TipoInstrutor))
	api.GET("/teacher/stats", rep.TeacherStats, middlewares.RequireRole(models.TipoAdmin, models.TipoInstrutor, models.TipoMonitor)) // rota legada do front
	api.GET("/dashboard/stats", dash.Stats)
	api.GET("/notifications/pending-calls", notif.PendingCalls)

	// atestados
	api.POST("/upload/atestado", up.Atestado)
	api.GET("/upload/atestado/:id", up.Download)
}
