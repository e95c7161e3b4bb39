// Package models defines the core domain models for splitchain.
//
// # Records
//
//   - Group: a named set of members (principal IDs), creator first
//   - Expense: a payment by one member, split across the group's members
//   - Settlement: a direct value transfer between two members of a group
//   - Event: the outbound fact produced by every ledger mutation
//   - User: an identity issued by the auth service (its ID is the principal)
//
// # Design Principles
//
// 1. **Append-only**: groups, expenses and events are never updated or deleted
// 2. **Integer amounts**: every amount is in the smallest indivisible unit (int64)
// 3. **Principals are strings**: the empty string is the zero principal and never a member
// 4. **No circular references**: records point at each other by ID, not by pointer
package models
