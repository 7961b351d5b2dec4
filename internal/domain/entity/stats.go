package entity

import "time"

// Visit /start bosilgandagi foydalanuvchi tashrifi
type Visit struct {
	UserID   int64
	Username string
	At       time.Time
}

// QueryEvent bitta hal qilingan so'rov
type QueryEvent struct {
	ID     string
	UserID int64
	Kind   string
	At     time.Time
}

// StatsSummary admin uchun umumiy statistika
type StatsSummary struct {
	Users   int
	Starts  int
	Queries map[string]int
}
