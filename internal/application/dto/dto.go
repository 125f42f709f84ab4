package dto

// ========== AUTH DTOs ==========

// RegisterRequest represents a sign-up request
type RegisterRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"max=100"`
}

// RegisterResponse represents a sign-up response
type RegisterResponse struct {
	UserID       string           `json:"user_id"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in"`
	Account      *AccountResponse `json:"account"`
}

// RefreshTokenRequest represents a refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" validate:"required"`
}

// RefreshTokenResponse represents a refresh token response
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ========== ACCOUNT DTOs ==========

// AccountResponse is the caller's profile and progression
type AccountResponse struct {
	ID                string  `json:"id"`
	Email             string  `json:"email"`
	Name              string  `json:"name"`
	XP                int     `json:"xp"`
	Level             int     `json:"level"`
	XPToNextLevel     int     `json:"xp_to_next_level"`
	Currency          int     `json:"currency"`
	Premium           bool    `json:"premium"`
	PremiumType       string  `json:"premium_type,omitempty"`
	AdRemoval         string  `json:"ad_removal"`
	TrialStartDate    string  `json:"trial_start_date"`
	TrialEndDate      string  `json:"trial_end_date"`
	LastAdShown       *string `json:"last_ad_shown,omitempty"`
	GraceDaysEarned   int     `json:"grace_days_earned"`
	StreakCorrections int     `json:"streak_corrections"`
}

// BadgeResponse is one achievement
type BadgeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	UnlockedAt  *string `json:"unlocked_at,omitempty"`
}

// ========== ENTITLEMENT DTOs ==========

// TrialStatusResponse describes the trial window
type TrialStatusResponse struct {
	IsActive      bool `json:"is_active"`
	DaysRemaining int  `json:"days_remaining"`
	HasExpired    bool `json:"has_expired"`
}

// EntitlementsResponse is everything the client needs to gate features.
// Limits of -1 mean unlimited.
type EntitlementsResponse struct {
	Trial               TrialStatusResponse `json:"trial"`
	Premium             bool                `json:"premium"`
	TaskLimit           int                 `json:"task_limit"`
	HistoryLimit        int                 `json:"history_limit"`
	LockedFeatures      []string            `json:"locked_features"`
	CanShowInterstitial bool                `json:"can_show_interstitial"`
	ShowBanner          bool                `json:"show_banner"`
}

// FeatureAccessResponse represents a single feature check
type FeatureAccessResponse struct {
	Feature  string `json:"feature"`
	Unlocked bool   `json:"unlocked"`
}

// ========== PLAN & PURCHASE DTOs ==========

// PlanResponse is a catalog entry priced for the caller
type PlanResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	AdjustedPrice float64  `json:"adjusted_price"`
	Currency      string   `json:"currency"`
	Period        string   `json:"period"`
	Features      []string `json:"features"`
	Popular       bool     `json:"popular"`
}

// TransactionResponse is one entry of the purchase history
type TransactionResponse struct {
	ID        string  `json:"id"`
	PlanID    string  `json:"plan_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	Provider  string  `json:"provider"`
	CreatedAt string  `json:"created_at"`
}

// PurchaseRequest represents a plan purchase
type PurchaseRequest struct {
	PlanID      string `json:"plan_id" binding:"required" validate:"required,oneof=free premium-monthly premium-annual ad-removal-basic ad-removal-complete"`
	ReceiptData string `json:"receipt_data" validate:"max=65536"`
}

// PurchaseResponse is the normalized purchase outcome
type PurchaseResponse struct {
	Success   bool   `json:"success"`
	PlanID    string `json:"plan_id"`
	Error     string `json:"error,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	Receipt   string `json:"receipt,omitempty"`
}

// ========== GRACE DAY DTOs ==========

// ApplyGraceDayRequest covers a missed day of a habit. CoveredDay defaults to yesterday.
type ApplyGraceDayRequest struct {
	HabitID    string `json:"habit_id" binding:"required" validate:"required,uuid"`
	CoveredDay string `json:"covered_day" validate:"omitempty,datetime=2006-01-02"`
	Type       string `json:"type" validate:"omitempty,oneof=manual skip-conversion"`
}

// PurchaseGraceDaysRequest converts XP into grace days
type PurchaseGraceDaysRequest struct {
	Count int `json:"count" binding:"required" validate:"required,min=1,max=3"`
}

// GraceDayResultResponse reports whether a ledger request was accepted
type GraceDayResultResponse struct {
	Applied   bool   `json:"applied"`
	Reason    string `json:"reason,omitempty"`
	Remaining int    `json:"remaining"`
}

// GraceDayActionResponse is one ledger entry
type GraceDayActionResponse struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Date       string  `json:"date"`
	HabitID    *string `json:"habit_id,omitempty"`
	CoveredDay *string `json:"covered_day,omitempty"`
	XPCost     *int    `json:"xp_cost,omitempty"`
}

// GraceDaysResponse is the remaining allowance plus the ledger
type GraceDaysResponse struct {
	Remaining int                      `json:"remaining"`
	History   []GraceDayActionResponse `json:"history"`
}

// ========== HABIT DTOs ==========

// FrequencyDTO is a habit schedule
type FrequencyDTO struct {
	Type     string `json:"type" validate:"required,oneof=daily weekly monthly custom"`
	Days     []int  `json:"days,omitempty" validate:"omitempty,dive,min=0,max=6"`
	Dates    []int  `json:"dates,omitempty" validate:"omitempty,dive,min=1,max=31"`
	Interval int    `json:"interval,omitempty" validate:"min=0"`
}

// CreateHabitRequest represents a new habit
type CreateHabitRequest struct {
	Title       string        `json:"title" binding:"required" validate:"required,max=200"`
	Description string        `json:"description" validate:"max=2000"`
	Frequency   *FrequencyDTO `json:"frequency" validate:"omitempty"`
	TimeOfDay   string        `json:"time_of_day" validate:"max=50"`
	Tags        []string      `json:"tags" validate:"max=20,dive,max=50"`
	XPReward    int           `json:"xp_reward" validate:"min=0,max=1000"`
}

// UpdateHabitRequest carries the fields to change
type UpdateHabitRequest struct {
	Title       *string       `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string       `json:"description" validate:"omitempty,max=2000"`
	Frequency   *FrequencyDTO `json:"frequency" validate:"omitempty"`
	TimeOfDay   *string       `json:"time_of_day" validate:"omitempty,max=50"`
	Tags        []string      `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	XPReward    *int          `json:"xp_reward" validate:"omitempty,min=0,max=1000"`
}

// MarkHabitRequest selects the day to mark. Date defaults to today.
type MarkHabitRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// CompletionDTO is one day of history
type CompletionDTO struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// HabitResponse represents a habit
type HabitResponse struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	Frequency         FrequencyDTO    `json:"frequency"`
	TimeOfDay         string          `json:"time_of_day,omitempty"`
	Tags              []string        `json:"tags"`
	XPReward          int             `json:"xp_reward"`
	Streak            int             `json:"streak"`
	CompletionHistory []CompletionDTO `json:"completion_history"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

// ========== AD DTOs ==========

// AdStatusResponse reports whether an ad placement may be shown
type AdStatusResponse struct {
	Placement string `json:"placement"`
	Show      bool   `json:"show"`
}

// ========== GAMIFICATION DTOs ==========

// StreakCorrectionResponse reports the outcome of a streak correction request
type StreakCorrectionResponse struct {
	Success           bool   `json:"success"`
	Reason            string `json:"reason,omitempty"`
	StreakCorrections int    `json:"streak_corrections"`
	Currency          int    `json:"currency"`
}

// BadgeUnlockResponse reports whether a badge was newly unlocked
type BadgeUnlockResponse struct {
	BadgeID  string `json:"badge_id"`
	Unlocked bool   `json:"unlocked"`
}

// ========== ERROR DTOs ==========

// ErrorDetail represents a detailed error
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse represents a validation error response
type ValidationErrorResponse struct {
	Error   string        `json:"error"`
	Details []ErrorDetail `json:"details"`
}
