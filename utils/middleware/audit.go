package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminAuditLog records a successful admin action on the resource named by :id.
// Failed requests are not recorded.
func AdminAuditLog(db *gorm.DB, action, resource string, newValue interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}

		rc, ok := GetRequestContext(c)
		if !ok || rc.Role != model.RoleAdmin {
			return nil
		}

		var resourceID uint
		if id, err := strconv.ParseUint(c.Params("id"), 10, 64); err == nil {
			resourceID = uint(id)
		}

		entry := model.AdminAuditLog{
			AdminID:     rc.UserID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			IPAddress:   c.IP(),
			UserAgent:   c.Get("User-Agent"),
			Description: c.Method() + " " + c.Path(),
		}
		if newValue != nil {
			if data, err := json.Marshal(newValue); err == nil {
				entry.NewValue = datatypes.JSON(data)
			}
		}

		if err := db.WithContext(c.UserContext()).Create(&entry).Error; err != nil {
			log.Warnf("failed to write audit log for %s %d: %v", action, resourceID, err)
		}
		return nil
	}
}
