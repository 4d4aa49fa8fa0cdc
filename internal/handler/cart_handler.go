package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// セッションIDからそのセッションのゲストカート保存先を引く
type LocalStoreFactory func(sessionID string) repo.LocalCartStore

// /cartのHTTP。
// エンジンはリクエスト単位で組み立てる（subjectごとに1インスタンス）。
type CartHandler struct {
	localStores  LocalStoreFactory
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

// DI
func NewCartHandler(
	localStores LocalStoreFactory,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartHandler {
	return &CartHandler{
		localStores:  localStores,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type AddCartRequest struct {
	ProductID      int64           `json:"product_id"`
	Name           string          `json:"name"`
	Price          int64           `json:"price"`
	ImageURL       string          `json:"image_url"`
	Quantity       int64           `json:"quantity"`
	Customizations json.RawMessage `json:"customizations"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type CartResponse struct {
	Items []model.CartLine `json:"items"`
	Total int64            `json:"total"`
	Count int64            `json:"count"`
}

// /cart, /cart/{id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.Session())
	g.Use(middleware.OptionalAuthJWT(cfg))

	g.GET("", h.getCart)
	g.POST("", h.addToCart)
	g.PATCH("/:id", h.patchItem)
	g.DELETE("/:id", h.deleteItem)
	g.DELETE("", h.clearCart)
}

// subjectを解決してエンジンを組み立てる。
// ログイン済みでゲストカートが残っていれば、この中（SetSubject）でマージされる。
func (h *CartHandler) newEngine(c echo.Context) *usecase.CartUsecase {
	sessionID, _ := c.Get(middleware.CtxSessionIDKey).(string)
	local := h.localStores(sessionID)

	uc := usecase.NewCartUsecase(local, h.cartRepo, h.cartItemRepo, h.productRepo)

	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)
	uc.SetSubject(c.Request().Context(), userID)

	return uc
}

func (h *CartHandler) getCart(c echo.Context) error {
	uc := h.newEngine(c)
	return c.JSON(http.StatusOK, buildCartResponse(uc))
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.ProductID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quantity"})
	}

	uc := h.newEngine(c)
	ok := uc.AddToCart(c.Request().Context(), usecase.AddToCartInput{
		ProductID:      req.ProductID,
		Name:           req.Name,
		Price:          req.Price,
		ImageURL:       req.ImageURL,
		Quantity:       req.Quantity,
		Customizations: req.Customizations,
	})
	if !ok {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "cart backend error"})
	}

	return c.JSON(http.StatusOK, buildCartResponse(uc))
}

func (h *CartHandler) patchItem(c echo.Context) error {
	itemID := c.Param("id")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//ログイン済みの明細IDはDB採番の数値。形式から外れたIDは存在しようがない
	if _, authed := c.Get(middleware.CtxUserIDKey).(int64); authed {
		if _, err := strconv.ParseInt(itemID, 10, 64); err != nil {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
	}

	uc := h.newEngine(c)
	if !uc.UpdateQuantity(c.Request().Context(), itemID, req.Quantity) {
		//ゲストの失敗は「明細が無い」以外に無い
		if _, ok := c.Get(middleware.CtxUserIDKey).(int64); !ok {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "cart backend error"})
	}

	return c.JSON(http.StatusOK, buildCartResponse(uc))
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	itemID := c.Param("id")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	uc := h.newEngine(c)
	if !uc.RemoveFromCart(c.Request().Context(), itemID) {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "cart backend error"})
	}

	return c.JSON(http.StatusOK, buildCartResponse(uc))
}

func (h *CartHandler) clearCart(c echo.Context) error {
	uc := h.newEngine(c)
	if !uc.ClearCart(c.Request().Context()) {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "cart backend error"})
	}

	return c.JSON(http.StatusOK, buildCartResponse(uc))
}

func buildCartResponse(uc *usecase.CartUsecase) CartResponse {
	return CartResponse{
		Items: uc.Items(),
		Total: uc.CartTotal(),
		Count: uc.CartItemCount(),
	}
}
