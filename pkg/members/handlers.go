package members

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/models"
)

type handler struct {
	memberService *Service
}

type showResponse struct {
	Member        *models.Member         `json:"member"`
	BorrowRecords []*models.BorrowRecord `json:"borrow_records"`
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := RegisterMemberPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	member, err := h.memberService.RegisterMember(ctx, params.Name, params.Email)
	if err != nil {
		return errors.WithStack(err)
	}

	log.Info("member registered", logger.Data{"member_id": member.ID})

	return errors.WithStack(c.JSON(http.StatusCreated, member))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListMembersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	members, err := h.memberService.ListMembers(ctx, ListMembersOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, members))
}

// show accepts either a numeric id or an email as the :id path param.
func (h *handler) show(c echo.Context) error {
	ctx := c.Request().Context()

	member, records, err := h.memberService.ShowMember(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, showResponse{member, records}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Member")
	}

	params := UpdateMemberPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	member, err := h.memberService.UpdateMemberEmail(ctx, id, params.Email)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, member))
}

func (h *handler) deleteMember(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Member")
	}

	if err := h.memberService.DeleteMember(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("member deleted", logger.Data{"member_id": id})

	return c.NoContent(http.StatusNoContent)
}
