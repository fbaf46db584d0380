package app

import (
	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/repos"
)

type Repos struct {
	User             repos.UserRepo
	UserToken        repos.UserTokenRepo
	Problem          repos.ProblemRepo
	Pattern          repos.PatternRepo
	ActivityLog      repos.ActivityLogRepo
	UserProgress     repos.UserProgressRepo
	PatternProgress  repos.PatternProgressRepo
	UserGamification repos.UserGamificationRepo
	Badge            repos.BadgeRepo
	Notification     repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		UserToken:        repos.NewUserTokenRepo(db, log),
		Problem:          repos.NewProblemRepo(db, log),
		Pattern:          repos.NewPatternRepo(db, log),
		ActivityLog:      repos.NewActivityLogRepo(db, log),
		UserProgress:     repos.NewUserProgressRepo(db, log),
		PatternProgress:  repos.NewPatternProgressRepo(db, log),
		UserGamification: repos.NewUserGamificationRepo(db, log),
		Badge:            repos.NewBadgeRepo(db, log),
		Notification:     repos.NewNotificationRepo(db, log),
	}
}
