package services

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	types "github.com/yungbote/lumina-backend/internal/domain"
)

func TestNewsletterSubscribeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	email := uniqueEmail("reader")

	sub, err := env.newsletter.Subscribe(bg(), "  "+strings.ToUpper(email)+" ")
	require.NoError(t, err)
	require.Equal(t, email, sub.Email)
	require.True(t, sub.IsActive)

	job, err := env.jobs.GetLatestForEntity(bg(), "newsletter_subscriber", sub.ID, types.JobTypeNewsletterWelcomeEmail)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Contains(t, string(job.Payload), email)

	_, err = env.newsletter.Subscribe(bg(), email)
	require.Equal(t, []string{"This email is already subscribed."}, requireFieldError(t, err, "email"))

	require.NoError(t, env.newsletter.Unsubscribe(bg(), email))
	require.NoError(t, env.newsletter.Unsubscribe(bg(), email))

	again, err := env.newsletter.Subscribe(bg(), email)
	require.NoError(t, err)
	require.Equal(t, sub.ID, again.ID)
	require.True(t, again.IsActive)
}

func TestNewsletterValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.newsletter.Subscribe(bg(), "")
	require.Equal(t, []string{"This field is required."}, requireFieldError(t, err, "email"))

	for _, email := range []string{"not-an-email", "@", "x@", "a@@b", "not-an-email@"} {
		_, err = env.newsletter.Subscribe(bg(), email)
		require.Equal(t, []string{"Enter a valid email address."}, requireFieldError(t, err, "email"), email)
		err = env.newsletter.Unsubscribe(bg(), email)
		require.Equal(t, []string{"Enter a valid email address."}, requireFieldError(t, err, "email"), email)
	}

	err = env.newsletter.Unsubscribe(bg(), uniqueEmail("ghost"))
	requireAPIError(t, err, http.StatusNotFound, "not_found")
}
