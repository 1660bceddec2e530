// Package xproc 提供当前进程的身份信息：进程名与实例 ID。
//
// 实例 ID 用于区分同一服务的多个副本，例如 xinvalidate 据此忽略自己发出的消息。
package xproc
