package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/standup-assistant/errors"
	"github.com/johnquangdev/standup-assistant/internal/adapter/dto/common"
)

// TeamContextKey is where the validated team id is stored on the echo context
const TeamContextKey = "team_id"

var teamPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// ValidTeam reports whether id can name a team. Team ids also name LiveKit
// rooms and object storage prefixes.
func ValidTeam(id string) bool {
	return teamPattern.MatchString(id)
}

// RequireTeam middleware: reject requests whose :team parameter is not a valid team id
func RequireTeam() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			team := c.Param("team")
			if !ValidTeam(team) {
				return c.JSON(http.StatusBadRequest, common.ErrorResponse{
					Code:    errors.ErrorCode_INVALID_ARGUMENT,
					Message: "team must be 1-64 letters, digits, dots, dashes or underscores",
					Details: map[string]string{"team": team},
				})
			}
			c.Set(TeamContextKey, team)
			return next(c)
		}
	}
}
