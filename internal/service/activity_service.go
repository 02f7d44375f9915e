package service

import (
	"fmt"
	"log"
	"sync"

	"github.com/41vi4p/MediStock/internal/models"
	"github.com/41vi4p/MediStock/internal/repository"
)

// defaultActivityBuffer is the size of the async write buffer
const defaultActivityBuffer = 256

// ActivityLogger records activity entries for the family activity page.
// Writes are best-effort and fully decoupled from the operations that
// trigger them: Log never blocks, never returns an error, and a failed or
// dropped write only produces a local log line.
type ActivityLogger struct {
	repo    *repository.ActivityLogRepository
	entries chan *models.ActivityLog
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// NewActivityLogger creates an activity logger and starts its background
// writer. Call Close to flush pending entries on shutdown.
func NewActivityLogger(repo *repository.ActivityLogRepository) *ActivityLogger {
	l := &ActivityLogger{
		repo:    repo,
		entries: make(chan *models.ActivityLog, defaultActivityBuffer),
	}

	l.wg.Add(1)
	go l.writer()

	return l
}

func (l *ActivityLogger) writer() {
	defer l.wg.Done()
	for entry := range l.entries {
		if err := l.repo.Create(entry); err != nil {
			log.Printf("Failed to record activity %s: %v", entry.Type, err)
		}
	}
}

// Close stops the logger after draining buffered entries
func (l *ActivityLogger) Close() {
	l.closeOnce.Do(func() {
		close(l.entries)
	})
	l.wg.Wait()
}

// Log queues an activity entry. If the buffer is full the entry is dropped.
func (l *ActivityLogger) Log(entry *models.ActivityLog) {
	select {
	case l.entries <- entry:
	default:
		log.Printf("Activity buffer full, dropping %s entry", entry.Type)
	}
}

// LogFamilyCreated records a family creation
func (l *ActivityLogger) LogFamilyCreated(user *models.User, familyID, familyName string) {
	l.Log(&models.ActivityLog{
		Type:        models.LogFamilyCreated,
		UserID:      user.ID,
		UserName:    user.DisplayName,
		FamilyID:    familyID,
		Description: fmt.Sprintf("Created family group %q", familyName),
		Metadata:    map[string]string{"familyName": familyName},
	})
}

// LogMemberAdded records a user joining a family
func (l *ActivityLogger) LogMemberAdded(user *models.User, familyID string) {
	l.Log(&models.ActivityLog{
		Type:        models.LogMemberAdded,
		UserID:      user.ID,
		UserName:    user.DisplayName,
		FamilyID:    familyID,
		Description: fmt.Sprintf("%s joined the family", user.DisplayName),
	})
}

// LogMemberRemoved records a member being removed by an admin
func (l *ActivityLogger) LogMemberRemoved(actor *models.User, familyID, removedName string) {
	l.Log(&models.ActivityLog{
		Type:        models.LogMemberRemoved,
		UserID:      actor.ID,
		UserName:    actor.DisplayName,
		FamilyID:    familyID,
		Description: fmt.Sprintf("Removed %s from the family", removedName),
		Metadata:    map[string]string{"removedMemberName": removedName},
	})
}

// LogMemberInvited records an email invitation being sent
func (l *ActivityLogger) LogMemberInvited(actor *models.User, familyID, invitedEmail string) {
	l.Log(&models.ActivityLog{
		Type:        models.LogMemberInvited,
		UserID:      actor.ID,
		UserName:    actor.DisplayName,
		FamilyID:    familyID,
		Description: fmt.Sprintf("Invited %s to join the family", invitedEmail),
		Metadata:    map[string]string{"invitedEmail": invitedEmail},
	})
}

// LogInvitationAccepted records an invited user joining
func (l *ActivityLogger) LogInvitationAccepted(user *models.User, familyID string) {
	l.Log(&models.ActivityLog{
		Type:        models.LogInvitationAccepted,
		UserID:      user.ID,
		UserName:    user.DisplayName,
		FamilyID:    familyID,
		Description: fmt.Sprintf("%s accepted family invitation", user.DisplayName),
	})
}

// LogPasswordChanged records the family join password being set or cleared
func (l *ActivityLogger) LogPasswordChanged(actor *models.User, familyID string, protected bool) {
	description := "Removed family password protection"
	if protected {
		description = "Updated family password protection"
	}
	l.Log(&models.ActivityLog{
		Type:        models.LogPasswordChanged,
		UserID:      actor.ID,
		UserName:    actor.DisplayName,
		FamilyID:    familyID,
		Description: description,
	})
}

// LogUserSignin records a sign-in
func (l *ActivityLogger) LogUserSignin(user *models.User) {
	l.Log(&models.ActivityLog{
		Type:        models.LogUserSignin,
		UserID:      user.ID,
		UserName:    user.DisplayName,
		FamilyID:    user.FamilyID,
		Description: fmt.Sprintf("%s signed in to the application", user.DisplayName),
	})
}

// LogUserSignup records an account creation
func (l *ActivityLogger) LogUserSignup(user *models.User) {
	l.Log(&models.ActivityLog{
		Type:        models.LogUserSignup,
		UserID:      user.ID,
		UserName:    user.DisplayName,
		FamilyID:    user.FamilyID,
		Description: fmt.Sprintf("%s created a new account", user.DisplayName),
	})
}

// LogSettingsUpdated records a settings change
func (l *ActivityLogger) LogSettingsUpdated(user *models.User, settingType string) {
	l.Log(&models.ActivityLog{
		Type:        models.LogSettingsUpdated,
		UserID:      user.ID,
		UserName:    user.DisplayName,
		FamilyID:    user.FamilyID,
		Description: fmt.Sprintf("Updated %s settings", settingType),
		Metadata:    map[string]string{"settingType": settingType},
	})
}

// LogMedicine records a medicine inventory event
func (l *ActivityLogger) LogMedicine(logType string, user *models.User, familyID, medicineName, description string) {
	l.Log(&models.ActivityLog{
		Type:        logType,
		UserID:      user.ID,
		UserName:    user.DisplayName,
		FamilyID:    familyID,
		Description: description,
		Metadata:    map[string]string{"medicineName": medicineName},
	})
}

// LogShoppingItem records a shopping list event
func (l *ActivityLogger) LogShoppingItem(logType string, user *models.User, familyID, itemName, description string) {
	l.Log(&models.ActivityLog{
		Type:        logType,
		UserID:      user.ID,
		UserName:    user.DisplayName,
		FamilyID:    familyID,
		Description: description,
		Metadata:    map[string]string{"itemName": itemName},
	})
}
