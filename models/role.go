package models

type UserRole string

// RoleScorer may submit match results.
const RoleScorer UserRole = "scorer"
