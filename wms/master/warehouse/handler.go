package warehouse

import (
	"errors"
	"retrack-app/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WarehouseHandler struct {
	DB *gorm.DB
}

func NewWarehouseHandler(db *gorm.DB) *WarehouseHandler {
	return &WarehouseHandler{DB: db}
}

func (h *WarehouseHandler) GetAllWarehouses(ctx *fiber.Ctx) error {
	var warehouses []Warehouse
	if err := h.DB.WithContext(ctx.UserContext()).Order("w_code").Find(&warehouses).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve warehouses",
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Warehouses retrieved successfully",
		"data":    warehouses,
	})
}

// GetWarehouse returns a warehouse with its staff and the bags routed to it.
func (h *WarehouseHandler) GetWarehouse(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid warehouse id",
		})
	}

	db := h.DB.WithContext(ctx.UserContext())

	var wh Warehouse
	if err := db.First(&wh, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Warehouse not found",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve warehouse",
		})
	}

	var staff []models.User
	var bags []models.Bag
	if err := db.Where("warehouse_id = ?", wh.ID).Find(&staff).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err := db.Where("warehouse_id = ?", wh.ID).Order("created_at desc").Find(&bags).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"warehouse": wh,
			"staff":     staff,
			"bags":      bags,
		},
	})
}
