package user_avatar

import (
	"fmt"

	"github.com/google/uuid"

	jobrt "github.com/yungbote/lumina-backend/internal/jobs/runtime"
)

// Run renders the initials avatar for the job's user. Users who already have
// an avatar (an upload that raced the job) are left alone.
func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	if p.avatar == nil || !p.avatar.Enabled() {
		jc.Succeed("skipped", map[string]any{"skipped": true, "reason": "storage_disabled"})
		return nil
	}
	var userID uuid.UUID
	if jc.Job.EntityID != nil {
		userID = *jc.Job.EntityID
	} else if id, ok := jc.PayloadUUID("user_id"); ok {
		userID = id
	}
	if userID == uuid.Nil {
		jc.Fail("validate", fmt.Errorf("missing user id"))
		return nil
	}

	jc.Progress("load", 10, "Loading user")
	users, err := p.users.GetByIDs(jc.DBC(), []uuid.UUID{userID})
	if err != nil {
		jc.Fail("load", err)
		return nil
	}
	if len(users) == 0 {
		jc.Succeed("skipped", map[string]any{"skipped": true, "reason": "user_not_found"})
		return nil
	}
	user := users[0]
	if user.AvatarURL != "" {
		jc.Succeed("skipped", map[string]any{"skipped": true, "reason": "avatar_exists"})
		return nil
	}

	jc.Progress("render", 40, "Rendering avatar")
	if err := p.avatar.CreateAndUploadUserAvatar(jc.DBC(), user); err != nil {
		jc.Fail("render", err)
		return nil
	}
	p.log.Debug("Avatar rendered", "user_id", user.ID)
	jc.Succeed("done", map[string]any{"avatar_url": user.AvatarURL})
	return nil
}
