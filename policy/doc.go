// Package policy provides optional declarative rules applied on top of a
// running scheduler – for example to treat scheduling outside an explicit
// tick as a host-level assertion failure, or to restrict which queues accept
// work. A scheduler without a policy keeps the permissive default behaviour.
package policy
