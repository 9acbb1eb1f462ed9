package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"post-board/cmd/api/handlers"
	"post-board/cmd/api/metrics"
	"post-board/cmd/api/middleware"
	"post-board/cmd/api/pipeline"
	"post-board/cmd/api/ratelimit"
	"post-board/cmd/api/services"
	_ "post-board/docs"
)

// Deps 는 라우터가 필요로 하는 협력 객체다. main 에서 한 번 만들어 주입한다.
type Deps struct {
	Posts  *services.PostService
	Users  *services.UserService
	Seeder *services.SeedService // nil 이면 /api/seeders 를 등록하지 않는다.

	Tokens       middleware.TokenVerifier
	UsersLimiter *ratelimit.Limiter
	PostsLimiter *ratelimit.Limiter

	Metrics     *metrics.Metrics
	DB          handlers.Pinger
	CORSOrigins []string
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestTrace(d.Metrics),
		middleware.Recovery(),
		middleware.CORS(d.CORSOrigins),
	)
	r.NoMethod(middleware.MethodNotAllowed())
	r.NoRoute(middleware.NotFound())

	r.GET("/health", handlers.HealthHandler(d.DB))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// 요청 처리 순서: rate limit → 인증 → 메서드 검사 → 핸들러
	posts := pipeline.New(
		middleware.RateLimit(d.PostsLimiter, d.Metrics),
		middleware.AuthGuard(d.Tokens),
	)
	postsHandler := handlers.PostsHandler(d.Posts)
	api.Any("/posts", posts.With(middleware.MethodGate(http.MethodGet, http.MethodPost)).Then(postsHandler))
	api.Any("/posts/:id", posts.With(middleware.MethodGate(http.MethodGet, http.MethodPut, http.MethodDelete)).Then(postsHandler))

	users := pipeline.New(middleware.RateLimit(d.UsersLimiter, d.Metrics))
	api.Any("/users", users.With(middleware.MethodGate(http.MethodPost)).Then(handlers.RegisterHandler(d.Users)))
	api.Any("/users/login", users.With(middleware.MethodGate(http.MethodPost)).Then(handlers.LoginHandler(d.Users)))

	if d.Seeder != nil {
		seeders := pipeline.New(middleware.MethodGate(http.MethodGet))
		api.Any("/seeders/posts", seeders.Then(handlers.SeedPostsHandler(d.Seeder)))
	}

	return r
}
