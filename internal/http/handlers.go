package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/domain"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/logging"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/repository"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/service"
	"github.com/rs/zerolog"
)

type Server struct {
	engine   *gin.Engine
	users    *service.UserService
	catalog  *service.CatalogService
	orders   *service.OrderService
	sessions *service.SessionService
}

func NewServer(users *service.UserService, catalog *service.CatalogService, orders *service.OrderService, sessions *service.SessionService, log zerolog.Logger) *Server {
	r := gin.New()
	r.Use(logging.RequestLogger(log), gin.Recovery())
	s := &Server{engine: r, users: users, catalog: catalog, orders: orders, sessions: sessions}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.engine.Group("/api")
	{
		api.GET("/health", s.health)

		api.POST("/register", s.register)
		api.POST("/login", s.login)
		api.POST("/logout", s.logout)

		api.GET("/products", s.listProducts)
		api.POST("/products", s.authRequired(), s.farmerOnly(), s.addProduct)
		api.GET("/farmer/:email/products", s.authRequired(), s.farmerOnly(), s.farmerProducts)

		api.POST("/orders", s.authRequired(), s.placeOrder)

		api.GET("/ledger", s.ledger)
	}
}

// fail единый конверт ошибки: {ok:false, error}
func fail(c *gin.Context, err error) {
	c.JSON(mapErrorToStatus(err), gin.H{"ok": false, "error": userMessage(err)})
}

// Auth handlers

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// @Summary Register user
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerReq true "User"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /register [post]
func (s *Server) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid json"})
		return
	}
	_, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "User registered"})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid json"})
		return
	}
	token, u, err := s.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "role": u.Role, "name": u.Name, "token": token})
}

// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]any
// @Router /logout [post]
func (s *Server) logout(c *gin.Context) {
	// идемпотентен: без токена или с отозванным токеном тоже ok
	s.sessions.Logout(c.Request.Context(), bearerToken(c))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Catalog handlers

// @Summary List products with current prices
// @Tags products
// @Produce json
// @Success 200 {array} domain.PricedProduct
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	list, err := s.catalog.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type addProductReq struct {
	FarmerEmail string  `json:"farmer_email"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Quality     string  `json:"quality"`
	MASP        float64 `json:"masp"`
	Available   int64   `json:"available"`
}

// @Summary Add product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body addProductReq true "Product"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Router /products [post]
func (s *Server) addProduct(c *gin.Context) {
	var req addProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid json"})
		return
	}
	// email из тела не авторизация: товар создаётся только от имени сессии
	sess := currentSession(c)
	if req.FarmerEmail != "" && !sameFarmer(sess, req.FarmerEmail) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "cannot add products for another farmer"})
		return
	}
	p, err := s.catalog.AddProduct(c.Request.Context(), sess.Email, req.Name, req.Category, req.Quality, req.MASP, req.Available)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "product": p})
}

// @Summary Farmer's products and orders
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param email path string true "Farmer email"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Router /farmer/{email}/products [get]
func (s *Server) farmerProducts(c *gin.Context) {
	email := c.Param("email")
	if !sameFarmer(currentSession(c), email) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "cannot view another farmer's dashboard"})
		return
	}
	products, orders, err := s.catalog.ListForFarmer(c.Request.Context(), email)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "orders": orders})
}

// Order handlers

type placeOrderReq struct {
	BuyerName  string `json:"buyer_name"`
	BuyerEmail string `json:"buyer_email"`
	ProductID  int64  `json:"product_id"`
	Qty        int64  `json:"qty"`
}

// @Summary Place order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body placeOrderReq true "Order"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /orders [post]
func (s *Server) placeOrder(c *gin.Context) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid json"})
		return
	}
	order, entry, err := s.orders.PlaceOrder(c.Request.Context(), req.BuyerName, req.BuyerEmail, req.ProductID, req.Qty)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order, "ledger_entry": entry})
}

// @Summary Audit ledger
// @Tags ledger
// @Produce json
// @Success 200 {array} domain.LedgerEntry
// @Router /ledger [get]
func (s *Server) ledger(c *gin.Context) {
	entries, err := s.orders.Ledger(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "smart-agro-tribe"})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidQuantityOrPrice):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrUnknownFarmer):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, service.ErrNotEnoughStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// userMessage текст ошибки для клиента; внутренние ошибки не раскрываются
func userMessage(err error) string {
	if mapErrorToStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
